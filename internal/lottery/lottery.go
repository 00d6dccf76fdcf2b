// Package lottery draws unique ticket numbers.
package lottery

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/tartampluch/go-congrats/internal/config"
)

var (
	// ErrInvalidRange is returned when min/max violate 1 <= min <= max <= 1000.
	ErrInvalidRange = errors.New(config.ErrLotteryRange)

	// ErrInvalidQuantity is returned when more numbers are requested than the range holds.
	ErrInvalidQuantity = errors.New(config.ErrLotteryQuantity)
)

// Drawer picks numbers using the given entropy source.
type Drawer struct {
	// Source defaults to crypto/rand.Reader when nil.
	Source io.Reader
}

// Draw picks quantity unique numbers from [lo, hi] using crypto/rand.
func Draw(lo, hi, quantity int) ([]int, error) {
	return Drawer{}.Draw(lo, hi, quantity)
}

// Draw picks quantity unique numbers from [lo, hi], sorted ascending.
func (d Drawer) Draw(lo, hi, quantity int) ([]int, error) {
	if lo < config.LotteryMinNumber || lo > hi || hi > config.LotteryMaxNumber {
		return nil, fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, lo, hi)
	}
	size := hi - lo + 1
	if quantity < 0 || quantity > size {
		return nil, fmt.Errorf("%w: quantity=%d range=%d", ErrInvalidQuantity, quantity, size)
	}

	source := d.Source
	if source == nil {
		source = rand.Reader
	}

	pool := make([]int, size)
	for i := range pool {
		pool[i] = lo + i
	}

	// Partial Fisher-Yates: the first quantity slots end up a uniform sample.
	for i := 0; i < quantity; i++ {
		n, err := rand.Int(source, big.NewInt(int64(size-i)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrRandom, err)
		}
		j := i + int(n.Int64())
		pool[i], pool[j] = pool[j], pool[i]
	}

	numbers := pool[:quantity:quantity]
	sort.Ints(numbers)
	return numbers, nil
}
