package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/history"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv := New()
	require.NoError(t, srv.Save(ctx, &model.Approval{ID: "1", Version: &model.CollectionVersion{Namespace: "ns", Name: "col"}, Source: "staging"}))
	require.NoError(t, srv.Save(ctx, &model.Approval{ID: "2", Version: &model.CollectionVersion{Namespace: "ns", Name: "other"}, Source: "rejected"}))

	actual, err := srv.List(ctx, history.ByCollection("ns", "col"))
	require.NoError(t, err)
	require.Len(t, actual, 1)
	assert.Equal(t, "1", actual[0].ID)

	actual, err = srv.List(ctx, dao.NewParameter(history.FieldSource, "rejected", "staging"))
	require.NoError(t, err)
	assert.Len(t, actual, 2)

	_, err = srv.Load(ctx, "3")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
