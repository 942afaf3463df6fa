package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

func TestDecodeProductsArray(t *testing.T) {
	data := []byte(`[
		{
			"id": "dep-001",
			"name": "KB Star 정기예금",
			"type": "정기예금",
			"provider": {"name": "국민은행"},
			"details": {
				"interest_rate": 3.5,
				"max_interest_rate": 4.2,
				"minimum_amount": 100000,
				"maximum_amount": 100000000,
				"subscription_period": "12개월"
			},
			"conditions": {
				"join_member": "제한없음",
				"join_way": ["인터넷", "스마트폰"]
			},
			"benefits": ["비대면 가입 우대"]
		},
		{
			"id": "loan-001",
			"name": "직장인 신용대출",
			"type": "신용대출",
			"provider": "카카오뱅크",
			"details": {
				"interest_rate": "연 4.5%",
				"minimum_amount": "1,000,000"
			}
		}
	]`)

	products, err := decodeProducts(data)
	require.NoError(t, err)
	require.Len(t, products, 2)

	dep := products[0]
	assert.Equal(t, "dep-001", dep.ID)
	assert.Equal(t, domain.ProductTypeDeposit, dep.Type)
	assert.Equal(t, "국민은행", dep.Provider)
	assert.Equal(t, 3.5, dep.InterestRate)
	assert.Equal(t, 4.2, dep.MaxInterestRate)
	assert.Equal(t, int64(100000), dep.MinAmount)
	assert.Equal(t, []string{"인터넷", "스마트폰"}, dep.Conditions.Ways)

	loan := products[1]
	assert.Equal(t, domain.ProductTypeCreditLoan, loan.Type)
	assert.Equal(t, "카카오뱅크", loan.Provider)
	assert.Equal(t, 4.5, loan.InterestRate)
	assert.Equal(t, int64(1000000), loan.MinAmount)
}

func TestDecodeProductsKeyedObject(t *testing.T) {
	data := []byte(`{
		"deposits": [
			{"id": "d1", "name": "예금 A", "type": "예금", "details": {"interest_rate": 3.0}}
		],
		"loans": [
			{"id": "l1", "name": "대출 B", "type": "마이너스통장", "details": {"interest_rate": 5.5}}
		],
		"metadata": {"generated": "2024-01-01"}
	}`)

	products, err := decodeProducts(data)
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := map[string]domain.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Equal(t, domain.ProductTypeDeposit, byID["d1"].Type)
	assert.Equal(t, domain.ProductTypeCreditLoan, byID["l1"].Type)
}

func TestDecodeProductsSkipsUnnamed(t *testing.T) {
	data := []byte(`[{"id": "x", "type": "예금"}, {"id": "y", "name": "적금 C", "type": "적금"}]`)

	products, err := decodeProducts(data)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "적금 C", products[0].Name)
}

func TestDecodeProductsAssignsIDWhenMissing(t *testing.T) {
	data := []byte(`[{"name": "이름만 있는 상품", "type": "예금"}]`)

	products, err := decodeProducts(data)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NotEmpty(t, products[0].ID)
}

func TestDecodeProductsInvalid(t *testing.T) {
	_, err := decodeProducts([]byte(`"not a catalog"`))
	assert.Error(t, err)
}

func TestNewFileSourceRequiresPath(t *testing.T) {
	_, err := NewFileSource("")
	assert.ErrorIs(t, err, ErrMissingPath)
}
