package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

type stubCustomersRepo struct {
	summary *Summary
	err     error
}

func (s *stubCustomersRepo) List(ctx context.Context, params pagination.Params, query string) (*CustomerList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &CustomerList{Page: params.Describe(0)}, nil
}

func (s *stubCustomersRepo) Summary(ctx context.Context, email string) (*Summary, error) {
	return s.summary, s.err
}

func TestCustomersGet_RequiresEmail(t *testing.T) {
	svc, err := NewService(&stubCustomersRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "")
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestCustomersGet_NotFound(t *testing.T) {
	svc, err := NewService(&stubCustomersRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "nobody@example.com")
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestCustomersList_WrapsRepoError(t *testing.T) {
	svc, err := NewService(&stubCustomersRepo{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Normalize(1, 25), "")
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeInternal, coded.Code())
}
