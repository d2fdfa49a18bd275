package notifier

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNotifier(t *testing.T) {
	t.Parallel()

	t.Run("default capacity", func(t *testing.T) {
		n := NewMemoryNotifier(0)
		assert.False(t, n.IsInterfaceNil())
		assert.Equal(t, defaultCapacity, n.capacity)
		assert.Empty(t, n.Recent())
	})
	t.Run("most recent first", func(t *testing.T) {
		n := NewMemoryNotifier(10)
		n.Show("API logging saved")
		n.ShowError(`Image "logo.png" exceeds the maximum authorized size (1.0 MB)`)

		recent := n.Recent()
		require.Len(t, recent, 2)
		assert.Equal(t, LevelError, recent[0].Level)
		assert.Equal(t, LevelInfo, recent[1].Level)
		assert.Equal(t, "API logging saved", recent[1].Message)
	})
	t.Run("bounded", func(t *testing.T) {
		n := NewMemoryNotifier(3)
		for i := 0; i < 5; i++ {
			n.Show(fmt.Sprintf("message %d", i))
		}

		recent := n.Recent()
		require.Len(t, recent, 3)
		assert.Equal(t, "message 4", recent[0].Message)
		assert.Equal(t, "message 2", recent[2].Message)
	})
	t.Run("concurrent use", func(t *testing.T) {
		n := NewMemoryNotifier(50)
		wg := sync.WaitGroup{}
		wg.Add(100)
		for i := 0; i < 100; i++ {
			go func(idx int) {
				defer wg.Done()
				n.Show(fmt.Sprintf("message %d", idx))
				_ = n.Recent()
			}(i)
		}
		wg.Wait()

		assert.Len(t, n.Recent(), 50)
	})
}
