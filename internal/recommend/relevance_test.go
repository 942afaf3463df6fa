package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordRelevance(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"신용대출 금리 알려줘", true},
		{"금리 높은 적금 추천해줘", true},
		{"50만원 대출받고 싶어", true},
		{"마이너스통장 만들고 싶어", true},
		{"오늘 날씨 어때", false},
		{"점심 뭐 먹지", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, keywordRelevance(tt.query), "query %q", tt.query)
	}
}

func TestKeywordDomain(t *testing.T) {
	assert.True(t, keywordDomainIsLoan("50만원 대출받고 싶어"))
	assert.True(t, keywordDomainIsLoan("전세자금 좀 빌리고 싶어요"))
	assert.False(t, keywordDomainIsLoan("금리 높은 적금 추천해줘"))
	assert.False(t, keywordDomainIsLoan("목돈 모으고 싶어"))
}
