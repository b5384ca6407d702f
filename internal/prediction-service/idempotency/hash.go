package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// RequestHash calcula o hash dos campos que importam no palpite.
// Usa os valores já normalizados e não o corpo cru, então espaços e ordem das chaves não mudam o hash.
func RequestHash(matchID string, home, away int) string {
	var b strings.Builder
	b.WriteString(matchID)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(home))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(away))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
