package secret

import (
	"github.com/mcoot/cowsbulls-go/internal/dependencies/random"
	"github.com/mcoot/cowsbulls-go/internal/model"
)

// digits is the pool the secret is drawn from
const digits = "0123456789"

// Generator produces secret codes with no repeated digits
type Generator struct {
	random random.Random
}

// NewGenerator creates a new secret Generator
func NewGenerator(random random.Random) *Generator {
	return &Generator{random: random}
}

// Generate returns a secret code of the given length. The ten digits are
// shuffled (Fisher-Yates via the injected random) and the first length
// digits taken, so a leading zero is as likely as any other digit.
func (g *Generator) Generate(length int) (string, error) {
	if !model.ValidDigitLength(length) {
		return "", model.ErrInvalidDigitLength
	}

	pool := []byte(digits)
	for i := len(pool) - 1; i > 0; i-- {
		j := g.random.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return string(pool[:length]), nil
}

// Interface for dependency injection
type GeneratorInterface interface {
	Generate(length int) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)
