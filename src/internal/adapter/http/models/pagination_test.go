package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRequest(t *testing.T) {
	req, err := ParsePageRequest(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, req)

	req, err = ParsePageRequest(url.Values{"page": {"3"}, "pageSize": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 3, PageSize: 20}, req)

	_, err = ParsePageRequest(url.Values{"page": {"0"}})
	assert.Error(t, err)

	_, err = ParsePageRequest(url.Values{"pageSize": {"101"}})
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, err := Paginate(items, PageRequest{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, page.Items)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 7, page.TotalItems)

	_, err = Paginate(items, PageRequest{Page: 3, PageSize: 5})
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	empty, err := Paginate([]int{}, PageRequest{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)
}

func TestCreateAccountRequestValidate(t *testing.T) {
	assert.NoError(t, CreateAccountRequest{AccountType: "savings"}.Validate())
	assert.NoError(t, CreateAccountRequest{AccountType: "savings", InitialBalance: "10.50"}.Validate())
	assert.Error(t, CreateAccountRequest{}.Validate())
	assert.Error(t, CreateAccountRequest{AccountType: "savings", InitialBalance: "ten"}.Validate())
	assert.Error(t, CreateAccountRequest{AccountType: "savings", InitialBalance: "-1"}.Validate())

	assert.Equal(t, "10.5", CreateAccountRequest{InitialBalance: " 10.50 "}.Balance().String())
	assert.True(t, CreateAccountRequest{}.Balance().IsZero())
}
