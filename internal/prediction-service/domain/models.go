package domain

import (
	"errors"
	"time"
)

// ErrNotFound é devolvido pelo store quando o registro não existe
// (ou não é visível para o usuário).
var ErrNotFound = errors.New("not found")

// BoosterKind identifica o tipo de booster.
type BoosterKind string

const (
	BoosterSegundaChance BoosterKind = "segunda_chance" // alterar palpite já feito fora da janela
	BoosterOEsquecido    BoosterKind = "o_esquecido"    // criar palpite atrasado
)

const (
	ScopeMatch  = "match"
	ScopeGlobal = "global"

	StatusActive     = "active"
	StatusExpired    = "expired"
	StatusSuperseded = "superseded"
	StatusConsumed   = "consumed"

	MarketOneXTwo = "1x2"
)

type Pool struct {
	ID   string
	Code string
	Name string
}

// PoolMatchKind diz como o identificador informado foi resolvido.
type PoolMatchKind int

const (
	PoolNotFound PoolMatchKind = iota
	PoolByID
	PoolByCode
)

func (k PoolMatchKind) String() string {
	switch k {
	case PoolByID:
		return "by_id"
	case PoolByCode:
		return "by_code"
	default:
		return "not_found"
	}
}

// PoolResolution é o resultado da busca de bolão por id ou código de convite.
// "Não existe" e "existe mas o usuário não é membro" caem ambos em PoolNotFound.
type PoolResolution struct {
	Kind PoolMatchKind
	Pool Pool
}

func (r PoolResolution) Found() bool { return r.Kind != PoolNotFound }

// Match é a partida de um bolão. StartTime zerado significa horário inutilizável.
type Match struct {
	ID        string
	PoolID    string
	HomeTeam  string
	AwayTeam  string
	StartTime time.Time
}

type Prediction struct {
	MatchID   string
	UserID    string
	HomePred  int
	AwayPred  int
	Outcome   int
	Market    string
	Status    string
	UpdatedAt time.Time
}

type BoosterActivation struct {
	ID        string
	UserID    string
	BoosterID BoosterKind
	Scope     string
	MatchID   string // vazio = vale para qualquer partida
	PoolID    string // vazio = vale para qualquer bolão da conta
	ExpiresAt *time.Time
	Status    string
	CreatedAt time.Time
}

// MatchScoped indica ativação presa a uma partida específica.
func (a BoosterActivation) MatchScoped() bool { return a.MatchID != "" }

// ValidAt considera status e expiração; expires_at nulo nunca expira.
func (a BoosterActivation) ValidAt(now time.Time) bool {
	if a.Status != StatusActive {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

// BoosterUsage é a linha do livro de consumo. Nunca é alterada.
type BoosterUsage struct {
	ID           string
	ActivationID string
	PoolID       string
	UserID       string
	MatchID      string
	BoosterID    BoosterKind
	Status       string
	CreatedAt    time.Time
}

type IdempotencyRecord struct {
	UserID         string
	Key            string
	RequestHash    string
	ResponseStatus int
	ResponseBody   []byte
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// Outcome devolve o sinal do placar: 1 mandante, 0 empate, -1 visitante.
func Outcome(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}
