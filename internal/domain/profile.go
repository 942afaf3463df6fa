package domain

// UserProfile mirrors the onboarding payload produced by the client app.
// All fields are optional; requests may carry a partial profile or none at
// all. Missing values are resolved to defaults by recommend.NormalizeProfile.
type UserProfile struct {
	BasicInfo             *BasicInfo             `json:"basic_info,omitempty"`
	FinancialSituation    *FinancialSituation    `json:"financial_situation,omitempty"`
	InvestmentPersonality *InvestmentPersonality `json:"investment_personality,omitempty"`
	GoalSetting           *GoalSetting           `json:"goal_setting,omitempty"`
}

// BasicInfo holds demographic answers in their raw survey form, e.g. an age
// of "30대" or "만 34세" rather than a number.
type BasicInfo struct {
	Age            string `json:"age,omitempty"`
	Occupation     string `json:"occupation,omitempty"`
	ResidenceArea  string `json:"residence_area,omitempty"`
	MaritalStatus  string `json:"marital_status,omitempty"`
	DependentCount string `json:"dependent_count,omitempty"`
}

// FinancialSituation carries income and spending answers. Ranges such as
// "300-400만원" are accepted and resolved to midpoints downstream.
type FinancialSituation struct {
	MonthlyIncome   string `json:"monthly_income,omitempty"`
	MonthlyExpense  string `json:"monthly_expense,omitempty"`
	CreditScore     string `json:"credit_score,omitempty"`
	ExistingAssets  string `json:"existing_assets,omitempty"`
	ExistingDebt    string `json:"existing_debt,omitempty"`
	HousingType     string `json:"housing_type,omitempty"`
}

// InvestmentPersonality is the risk questionnaire outcome.
type InvestmentPersonality struct {
	RiskTolerance        string `json:"risk_tolerance,omitempty"`
	InvestmentExperience string `json:"investment_experience,omitempty"`
	PreferredPeriod      string `json:"preferred_period,omitempty"`
}

// GoalSetting is the user's stated financial goal.
type GoalSetting struct {
	PrimaryGoal   string `json:"primary_goal,omitempty"`
	TargetAmount  string `json:"target_amount,omitempty"`
	TargetPeriod  string `json:"target_period,omitempty"`
	MonthlyBudget string `json:"monthly_budget,omitempty"`
}

// NormalizedProfile is the fully resolved numeric view of a UserProfile.
// Every field is populated; absent answers have been replaced with defaults.
// Amounts the client never stated (debt, assets, goal figures) default to
// zero rather than an invented midpoint.
type NormalizedProfile struct {
	Age           int
	Occupation    string
	Residence     string
	MaritalStatus string

	MonthlyIncome  int64
	MonthlyExpense int64
	DebtAmount     int64
	AssetsAmount   int64
	CreditScore    int

	RiskTolerance        string
	InvestmentExperience string
	PreferredPeriod      string

	PrimaryGoal   string
	TargetAmount  int64
	Timeframe     string
	MonthlyBudget int64
}
