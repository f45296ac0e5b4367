package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RunCommitsStagedChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Run(ctx, func(ledger repository.StockLedger, txRepo repository.StockTransactionRepository) error {
		q, err := ledger.ApplyDelta(ctx, "i1", "l1", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), q)

		q, err = ledger.ApplyDelta(ctx, "i1", "l1", -3)
		require.NoError(t, err)
		assert.Equal(t, int64(7), q)

		tx := &entity.StockTransaction{ID: "t1", ItemID: "i1", Quantity: 3}
		require.NoError(t, txRepo.Append(ctx, tx))
		assert.Equal(t, int64(1), tx.Sequence)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Read(ctx, func(snap repository.Snapshot) error {
		q, err := snap.Ledger.GetLevel(ctx, "i1", "l1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), q)

		all, err := snap.Transactions.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, int64(1), all[0].Sequence)
		return nil
	}))
}

func TestStore_RunDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ledger repository.StockLedger, txRepo repository.StockTransactionRepository) error {
		_, _ = ledger.ApplyDelta(ctx, "i1", "l1", -5)
		_, _ = ledger.ApplyDelta(ctx, "i1", "l2", 5)
		_ = txRepo.Append(ctx, &entity.StockTransaction{ID: "t1", ItemID: "i1", Quantity: 5})
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.Read(ctx, func(snap repository.Snapshot) error {
		levels, err := snap.Ledger.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, levels)
		txs, err := snap.Transactions.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, txs)
		return nil
	}))

	// El consecutivo tampoco avanza con una transacción descartada.
	require.NoError(t, s.Run(ctx, func(_ repository.StockLedger, txRepo repository.StockTransactionRepository) error {
		tx := &entity.StockTransaction{ID: "t2", ItemID: "i1", Quantity: 1}
		require.NoError(t, txRepo.Append(ctx, tx))
		assert.Equal(t, int64(1), tx.Sequence)
		return nil
	}))
}

func TestStore_SetAbsoluteAndTotals(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Run(ctx, func(ledger repository.StockLedger, _ repository.StockTransactionRepository) error {
		_, _ = ledger.ApplyDelta(ctx, "i1", "l1", 4)
		_, _ = ledger.ApplyDelta(ctx, "i1", "l2", 6)
		q, err := ledger.SetAbsolute(ctx, "i1", "l1", 20)
		require.NoError(t, err)
		assert.Equal(t, int64(20), q)

		total, err := ledger.GetTotal(ctx, "i1")
		require.NoError(t, err)
		assert.Equal(t, int64(26), total)
		return nil
	}))

	require.NoError(t, s.Read(ctx, func(snap repository.Snapshot) error {
		byLoc, err := snap.Ledger.ListByLocation(ctx, "l2")
		require.NoError(t, err)
		require.Len(t, byLoc, 1)
		assert.Equal(t, int64(6), byLoc[0].Quantity)

		missing, err := snap.Ledger.GetLevel(ctx, "i1", "l9")
		require.NoError(t, err)
		assert.Zero(t, missing)
		return nil
	}))
}

func TestStore_ListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i, item := range []string{"a", "b", "a", "a"} {
		id := string(rune('1' + i))
		require.NoError(t, s.Run(ctx, func(_ repository.StockLedger, txRepo repository.StockTransactionRepository) error {
			return txRepo.Append(ctx, &entity.StockTransaction{ID: id, ItemID: item, Quantity: 1})
		}))
	}

	require.NoError(t, s.Read(ctx, func(snap repository.Snapshot) error {
		recent, err := snap.Transactions.ListRecent(ctx, "a", 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, []int64{4, 3}, []int64{recent[0].Sequence, recent[1].Sequence})

		all, err := snap.Transactions.ListRecent(ctx, "", 10)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		got, err := snap.Transactions.GetByID(ctx, "2")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ItemID)
		return nil
	}))
}

func TestItemRepo_CodeUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Items()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.InventoryItem{ID: "1", Code: "CEM-000001", Name: "Cemento", CreatedAt: now}))
	err := repo.Create(ctx, &entity.InventoryItem{ID: "2", Code: "CEM-000001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, repo.Create(ctx, &entity.InventoryItem{ID: "2", Code: "VAR-000001", Name: "Varilla"}))
	err = repo.Update(ctx, &entity.InventoryItem{ID: "2", Code: "CEM-000001", Name: "Varilla"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, repo.Update(ctx, &entity.InventoryItem{ID: "1", Code: "CEM-000009", Name: "Cemento gris"}))
	got, err := repo.GetByCode(ctx, "CEM-000009")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Cemento gris", got.Name)
	assert.True(t, got.CreatedAt.Equal(now))

	old, err := repo.GetByCode(ctx, "CEM-000001")
	require.NoError(t, err)
	assert.Nil(t, old)

	n1, _ := repo.NextCodeSequence(ctx, "CEM")
	n2, _ := repo.NextCodeSequence(ctx, "CEM")
	n3, _ := repo.NextCodeSequence(ctx, "VAR")
	assert.Equal(t, []int64{1, 2, 1}, []int64{n1, n2, n3})
}

func TestItemRepo_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Items()
	require.NoError(t, repo.Create(ctx, &entity.InventoryItem{ID: "1", Code: "CEM-000001", Name: "Cemento gris", Category: "Cemento"}))
	require.NoError(t, repo.Create(ctx, &entity.InventoryItem{ID: "2", Code: "VAR-000001", Name: "Varilla 1/2", Category: "Acero"}))

	list, err := repo.List(ctx, repository.ItemFilter{Search: "gris"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	list, err = repo.List(ctx, repository.ItemFilter{Category: "Acero"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)

	list, err = repo.List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, "CEM-000001", list[0].Code)
}
