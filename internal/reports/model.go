package reports

import (
	"time"

	"creditreport-backend/internal/xmltree"
)

const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

// CreditReport is the durable, status-bearing wrapper around one uploaded
// bureau document. It is created at upload acceptance in StatusUploaded and
// mutated exactly twice by the orchestrator: to StatusProcessing, then to a
// terminal StatusProcessed or StatusFailed.
type CreditReport struct {
	ID               string
	ReportID         string
	UserID           string
	FileName         string
	OriginalFileName string
	MimeType         string
	FileSize         int64
	Status           string
	ProcessingError  string
	Extracted        *ExtractedData
	RawTree          xmltree.Node
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

// ExtractedData is the canonical, typed output of one successful extraction.
type ExtractedData struct {
	BasicDetails        BasicDetails        `json:"basicDetails"`
	ReportSummary       ReportSummary       `json:"reportSummary"`
	CreditAccounts      []CreditAccount     `json:"creditAccounts"`
	Addresses           []Address           `json:"addresses"`
	Header              Header              `json:"header"`
	CreditProfileHeader CreditProfileHeader `json:"creditProfileHeader"`
	MatchResult         MatchResult         `json:"matchResult"`
}

// BasicDetails carries the applicant identity. PAN is the one required
// field; a report without it never reaches StatusProcessed.
type BasicDetails struct {
	Name                   string     `json:"name"`
	MobilePhone            string     `json:"mobilePhone"`
	PAN                    string     `json:"pan"`
	CreditScore            *int       `json:"creditScore,omitempty"`
	BureauScoreConfidLevel string     `json:"bureauScoreConfidLevel,omitempty"`
	DateOfBirth            *time.Time `json:"dateOfBirth,omitempty"`
}

// ReportSummary holds the sixteen account/enquiry counters. Every field
// defaults to 0 when its source path is missing.
type ReportSummary struct {
	TotalAccounts              int `json:"totalAccounts"`
	ActiveAccounts             int `json:"activeAccounts"`
	ClosedAccounts             int `json:"closedAccounts"`
	DefaultAccounts            int `json:"defaultAccounts"`
	CurrentBalance             int `json:"currentBalance"`
	SecuredAmount              int `json:"securedAmount"`
	UnsecuredAmount            int `json:"unsecuredAmount"`
	SecuredPercentage          int `json:"securedPercentage"`
	UnsecuredPercentage        int `json:"unsecuredPercentage"`
	Last7DaysEnquiries         int `json:"last7DaysEnquiries"`
	Last30DaysEnquiries        int `json:"last30DaysEnquiries"`
	Last90DaysEnquiries        int `json:"last90DaysEnquiries"`
	Last180DaysEnquiries       int `json:"last180DaysEnquiries"`
	CreditAccountTotal         int `json:"creditAccountTotal"`
	CreditAccountActive        int `json:"creditAccountActive"`
	CreditAccountDefault       int `json:"creditAccountDefault"`
	CreditAccountClosed        int `json:"creditAccountClosed"`
	CADSuitFiledCurrentBalance int `json:"cadSuitFiledCurrentBalance"`
}

// CreditAccount is one tradeline from the bureau document, in source order.
type CreditAccount struct {
	AccountNumber             string     `json:"accountNumber"`
	AccountType               string     `json:"accountType"`
	SubscriberName            string     `json:"subscriberName"`
	PortfolioType             string     `json:"portfolioType,omitempty"`
	OpenDate                  *time.Time `json:"openDate,omitempty"`
	CreditLimit               int        `json:"creditLimit"`
	HighestCredit             int        `json:"highestCredit"`
	CurrentBalance            int        `json:"currentBalance"`
	AmountOverdue             int        `json:"amountOverdue"`
	AccountStatus             string     `json:"accountStatus"`
	PaymentRating             string     `json:"paymentRating,omitempty"`
	PaymentHistoryProfile     string     `json:"paymentHistoryProfile,omitempty"`
	DateReported              *time.Time `json:"dateReported,omitempty"`
	DateClosed                *time.Time `json:"dateClosed,omitempty"`
	Currency                  string     `json:"currency"`
	AccountHolderType         string     `json:"accountHolderType,omitempty"`
	Address                   *Address   `json:"address,omitempty"`
	IdentificationNumber      string     `json:"identificationNumber,omitempty"`
	TermsDuration             string     `json:"termsDuration,omitempty"`
	TermsFrequency            string     `json:"termsFrequency,omitempty"`
	ScheduledMonthlyPayment   int        `json:"scheduledMonthlyPayment"`
	SpecialComment            string     `json:"specialComment,omitempty"`
	OriginalChargeOffAmount   int        `json:"originalChargeOffAmount"`
	DateOfFirstDelinquency    *time.Time `json:"dateOfFirstDelinquency,omitempty"`
	DateOfLastPayment         *time.Time `json:"dateOfLastPayment,omitempty"`
	SuitFiledWilfulDefault    string     `json:"suitFiledWilfulDefault,omitempty"`
	WrittenOffSettledStatus   string     `json:"writtenOffSettledStatus,omitempty"`
	ValueOfCollateral         int        `json:"valueOfCollateral"`
	TypeOfCollateral          string     `json:"typeOfCollateral,omitempty"`
	WrittenOffAmountTotal     int        `json:"writtenOffAmountTotal"`
	WrittenOffAmountPrincipal int        `json:"writtenOffAmountPrincipal"`
	RateOfInterest            float64    `json:"rateOfInterest"`
	RepaymentTenure           int        `json:"repaymentTenure"`
	SubscriberComments        string     `json:"subscriberComments,omitempty"`
	ConsumerComments          string     `json:"consumerComments,omitempty"`
}

// Address is one holder address. Reports carry one per tradeline; the
// top-level list is deduplicated by (line1, line2, city).
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

// Header is the bureau system header block.
type Header struct {
	SystemCode  string     `json:"systemCode,omitempty"`
	ReportDate  *time.Time `json:"reportDate,omitempty"`
	ReportTime  string     `json:"reportTime,omitempty"`
	MessageText string     `json:"messageText,omitempty"`
}

// CreditProfileHeader is the enquiry-level header block.
type CreditProfileHeader struct {
	EnquiryUsername string     `json:"enquiryUsername,omitempty"`
	ReportDate      *time.Time `json:"reportDate,omitempty"`
	ReportTime      string     `json:"reportTime,omitempty"`
	Version         string     `json:"version,omitempty"`
	ReportNumber    string     `json:"reportNumber,omitempty"`
	SubscriberName  string     `json:"subscriberName,omitempty"`
}

// MatchResult carries the bureau's exact-match flag, "Y" or "N".
type MatchResult struct {
	ExactMatch string `json:"exactMatch"`
}

// IsProcessed reports whether the record reached its success terminal state.
func (r CreditReport) IsProcessed() bool {
	return r.Status == StatusProcessed
}
