package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestLocationUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLocationUseCase(memory.NewStore().Locations())

	bodega, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Bodega central", Address: "Cra 7 # 45-10"})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeWarehouse, bodega.Type)

	obra, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Obra Calle 80", Type: "Site"})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeSite, obra.Type)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Name: "X", Type: "oficina"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Create(ctx, dto.CreateLocationRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Bodega central", list.Items[0].Name)
}
