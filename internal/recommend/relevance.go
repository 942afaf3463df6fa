package recommend

import "strings"

// FallbackMessage is returned verbatim when a query is judged out of scope.
const FallbackMessage = "금융 상품 추천과 관련된 질문을 해주세요. 예: \"금리 높은 적금 추천해줘\", \"신용대출 조건 알려줘\""

// financeKeywords is the vocabulary behind the deterministic relevance
// fallback. Substring membership of any term marks a query in scope.
var financeKeywords = []string{
	"예금", "적금", "저축", "대출", "금리", "이자", "투자", "펀드",
	"마이너스", "통장", "신용", "담보", "전세", "재테크", "목돈",
	"연금", "상품", "추천", "은행",
}

// keywordRelevance is the deterministic fallback used when the external
// relevance classifier fails or returns unusable output.
func keywordRelevance(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range financeKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// loanKeywords marks a query as loan-domain under the keyword fallback.
var loanKeywords = []string{
	"대출", "빌리", "빌려", "융자", "마이너스", "담보", "전세자금", "신용",
}

func keywordDomainIsLoan(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range loanKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
