package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// PaymentPrefix starts every simulated M-Pesa transaction code.
const PaymentPrefix = "MPS"

const paymentDigits = 10

var tenDigits = big.NewInt(10)

// NewPaymentReference returns a simulated M-Pesa code: PaymentPrefix
// followed by ten random decimal digits. No payment provider is called.
func NewPaymentReference() (string, error) {
	var sb strings.Builder
	sb.Grow(len(PaymentPrefix) + paymentDigits)
	sb.WriteString(PaymentPrefix)
	for i := 0; i < paymentDigits; i++ {
		n, err := rand.Int(rand.Reader, tenDigits)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
