package audit

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func change(event domain.EventType, x, y int, from, to domain.BlockKind) domain.BlockChange {
	return domain.BlockChange{
		Event: event,
		Actor: domain.PackEntityID(domain.RolePlayer, 0),
		X:     x, Y: y,
		From: from, To: to,
	}
}

func TestIndex_RecordAndQuery(t *testing.T) {
	idx, err := Open(MemoryDSN, 16)
	require.NoError(t, err)
	defer idx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	idx.RecordChange("s1", 1, change(domain.EventBlockDug, 3, 9, domain.BlockGrass, domain.BlockAir))
	idx.RecordChange("s1", 2, change(domain.EventBlockPlaced, 3, 9, domain.BlockAir, domain.BlockStone))
	idx.RecordChange("s2", 2, change(domain.EventBlockDug, 0, 8, domain.BlockDirt, domain.BlockAir))
	require.NoError(t, idx.Flush(ctx))

	entries, err := idx.Query(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Новые первыми
	assert.Equal(t, "BLOCK_PLACED", entries[0].Action)
	assert.Equal(t, "STONE", entries[0].To)
	assert.Equal(t, "BLOCK_DUG", entries[1].Action)
	assert.Equal(t, "GRASS", entries[1].From)
	assert.Equal(t, uint64(1), entries[1].Tick)

	n, err := idx.Count(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	limited, err := idx.Query(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestIndex_FileDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	idx, err := Open(path, 4)
	require.NoError(t, err)

	idx.RecordChange("s1", 5, change(domain.EventBlockDug, 1, 8, domain.BlockDirt, domain.BlockAir))
	require.NoError(t, idx.Flush(context.Background()))
	require.NoError(t, idx.Close())

	// Повторное открытие видит сохраненные данные
	idx, err = Open(path, 4)
	require.NoError(t, err)
	defer idx.Close()

	n, err := idx.Count(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndex_ClosedIsNoop(t *testing.T) {
	idx, err := Open(MemoryDSN, 4)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	assert.NotPanics(t, func() {
		idx.RecordChange("s1", 1, change(domain.EventBlockDug, 0, 0, domain.BlockGrass, domain.BlockAir))
	})
	assert.Error(t, idx.Flush(context.Background()))
	// Повторное закрытие безопасно
	assert.NoError(t, idx.Close())
}

func TestOpen_InvalidBuffer(t *testing.T) {
	_, err := Open(MemoryDSN, 0)
	assert.Error(t, err)
}

func TestIndex_CloseDuringWrites(t *testing.T) {
	idx, err := Open(MemoryDSN, 2)
	require.NoError(t, err)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 200; i++ {
				idx.RecordChange("s1", uint64(i), change(domain.EventBlockDug, i%16, 9, domain.BlockGrass, domain.BlockAir))
				_ = idx.Flush(context.Background())
			}
		}()
	}

	close(start)
	// Отправка в закрытый канал уронила бы весь тестовый бинарник
	require.NoError(t, idx.Close())
	wg.Wait()
}
