package bates

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencerIncrements(t *testing.T) {
	seq := NewSequencer("GP")

	assert.Equal(t, "GP_00001", seq.Next())
	assert.Equal(t, "GP_00002", seq.Next())
	assert.Equal(t, "GP_00003", seq.Next())
}

func TestSequencerToken(t *testing.T) {
	seq := NewSequencer("ACME")
	assert.Equal(t, "ACME_00001", seq.Next())
}

func TestSequencerGapFree(t *testing.T) {
	seq := NewSequencer("GP")
	for i := 1; i <= 250; i++ {
		id := seq.Next()
		n, err := strconv.Atoi(strings.TrimPrefix(id, "GP_"))
		require.NoError(t, err)
		require.Equal(t, i, n)
	}
}

// The pad width drops away at 10000: GP_09999 is followed by GP_10000.
func TestSequencerPadWidthDiscontinuity(t *testing.T) {
	seq := NewSequencer("GP")
	for i := 1; i <= 10001; i++ {
		id := seq.Next()
		switch i {
		case 9:
			assert.Equal(t, "GP_00009", id)
		case 10:
			assert.Equal(t, "GP_00010", id)
		case 100:
			assert.Equal(t, "GP_00100", id)
		case 1000:
			assert.Equal(t, "GP_01000", id)
		case 9999:
			assert.Equal(t, "GP_09999", id)
		case 10000:
			assert.Equal(t, "GP_10000", id)
		case 10001:
			assert.Equal(t, "GP_10001", id)
		}
	}
}

func TestSequencerConcurrentCallersStayUnique(t *testing.T) {
	seq := NewSequencer("GP")

	const workers = 20
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := seq.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
