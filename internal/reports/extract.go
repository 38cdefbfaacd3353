package reports

import (
	"errors"
	"strings"

	"creditreport-backend/internal/xmltree"
)

// ErrPANNotFound is the one business-rule failure the extraction engine
// raises deliberately: a report whose identity cannot be established must
// not reach StatusProcessed.
var ErrPANNotFound = errors.New("PAN number not found in XML file")

// extractReport walks the parsed tree and produces the canonical extracted
// record. Every step except PAN resolution degrades to defaults instead of
// failing: a report with partial summary data is still useful, one without a
// verifiable identity is not.
func extractReport(tree xmltree.Node) (ExtractedData, error) {
	profile := tree.Child("INProfileResponse")

	basic, err := extractBasicDetails(profile)
	if err != nil {
		return ExtractedData{}, err
	}

	return ExtractedData{
		BasicDetails:        basic,
		ReportSummary:       extractReportSummary(profile),
		CreditAccounts:      extractCreditAccounts(profile),
		Addresses:           extractAddresses(profile),
		Header:              extractHeader(profile),
		CreditProfileHeader: extractCreditProfileHeader(profile),
		MatchResult:         extractMatchResult(profile),
	}, nil
}

// accountList normalizes the CAIS account node, which collapses to a bare
// mapping when exactly one tradeline exists.
func accountList(profile xmltree.Node) []xmltree.Node {
	return profile.Child("CAIS_Account").List("CAIS_Account_DETAILS")
}

func extractBasicDetails(profile xmltree.Node) (BasicDetails, error) {
	accounts := accountList(profile)

	pan := resolvePAN(accounts)
	if pan == "" {
		return BasicDetails{}, ErrPANNotFound
	}

	details := BasicDetails{PAN: pan}

	// Tier one: holder details on the first tradeline.
	if len(accounts) > 0 {
		if holder := accounts[0].Child("CAIS_Holder_Details"); holder != nil {
			details.Name = strings.TrimSpace(holder.Str("First_Name_Non_Normalized") + " " + holder.Str("Surname_Non_Normalized"))
			if dob := holder.Str("Date_of_birth"); dob != sentinelDOB {
				details.DateOfBirth = toDate(dob)
			}
		}
	}

	// Tier two: the current-application block, emitted instead of holder
	// details for enquiry-originated documents.
	if details.Name == "" {
		applicant := profile.Child("Current_Application").
			Child("Current_Application_Details").
			Child("Current_Applicant_Details")
		if applicant != nil {
			details.Name = strings.TrimSpace(applicant.Str("First_Name") + " " + applicant.Str("Last_Name"))
			details.MobilePhone = applicant.Str("MobilePhoneNumber")
			if dob := applicant.Str("Date_Of_Birth_Applicant"); dob != sentinelDOB {
				details.DateOfBirth = toDate(dob)
			}
		}
	}

	// Tier three: phone details on the first tradeline.
	if details.MobilePhone == "" && len(accounts) > 0 {
		details.MobilePhone = accounts[0].Child("CAIS_Holder_Phone_Details").Str("Telephone_Number")
	}

	if score := profile.Child("SCORE"); score != nil {
		details.CreditScore = toIntPtr(score.Str("BureauScore"))
		details.BureauScoreConfidLevel = score.Str("BureauScoreConfidLevel")
	}

	if details.Name == "" {
		details.Name = "N/A"
	}
	if details.MobilePhone == "" {
		details.MobilePhone = "N/A"
	}
	return details, nil
}

// resolvePAN scans each tradeline for a tax-id field in its two alternate
// locations; the first non-empty match wins.
func resolvePAN(accounts []xmltree.Node) string {
	for _, account := range accounts {
		if pan := account.Child("CAIS_Holder_Details").Str("Income_TAX_PAN"); pan != "" {
			return normalizePAN(pan)
		}
		for _, idDetail := range account.List("CAIS_Holder_ID_Details") {
			if pan := idDetail.Str("Income_TAX_PAN"); pan != "" {
				return normalizePAN(pan)
			}
		}
	}
	return ""
}

func normalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

func extractReportSummary(profile xmltree.Node) ReportSummary {
	caisSummary := profile.Child("CAIS_Account").Child("CAIS_Summary")
	creditAccount := caisSummary.Child("Credit_Account")
	outstanding := caisSummary.Child("Total_Outstanding_Balance")
	totalCAPS := profile.Child("TotalCAPS_Summary")

	return ReportSummary{
		TotalAccounts:              toInt(creditAccount.Str("CreditAccountTotal")),
		ActiveAccounts:             toInt(creditAccount.Str("CreditAccountActive")),
		ClosedAccounts:             toInt(creditAccount.Str("CreditAccountClosed")),
		DefaultAccounts:            toInt(creditAccount.Str("CreditAccountDefault")),
		CurrentBalance:             toInt(outstanding.Str("Outstanding_Balance_All")),
		SecuredAmount:              toInt(outstanding.Str("Outstanding_Balance_Secured")),
		UnsecuredAmount:            toInt(outstanding.Str("Outstanding_Balance_UnSecured")),
		SecuredPercentage:          toInt(outstanding.Str("Outstanding_Balance_Secured_Percentage")),
		UnsecuredPercentage:        toInt(outstanding.Str("Outstanding_Balance_UnSecured_Percentage")),
		Last7DaysEnquiries:         toInt(totalCAPS.Str("TotalCAPSLast7Days")),
		Last30DaysEnquiries:        toInt(totalCAPS.Str("TotalCAPSLast30Days")),
		Last90DaysEnquiries:        toInt(totalCAPS.Str("TotalCAPSLast90Days")),
		Last180DaysEnquiries:       toInt(totalCAPS.Str("TotalCAPSLast180Days")),
		CreditAccountTotal:         toInt(creditAccount.Str("CreditAccountTotal")),
		CreditAccountActive:        toInt(creditAccount.Str("CreditAccountActive")),
		CreditAccountDefault:       toInt(creditAccount.Str("CreditAccountDefault")),
		CreditAccountClosed:        toInt(creditAccount.Str("CreditAccountClosed")),
		CADSuitFiledCurrentBalance: toInt(creditAccount.Str("CADSuitFiledCurrentBalance")),
	}
}

func extractCreditAccounts(profile xmltree.Node) []CreditAccount {
	accounts := accountList(profile)
	out := make([]CreditAccount, 0, len(accounts))

	for _, account := range accounts {
		entry := CreditAccount{
			AccountNumber:             defaultStr(account.Str("Account_Number"), "N/A"),
			AccountType:               accountTypeLabel(account.Str("Account_Type")),
			SubscriberName:            defaultStr(strings.TrimSpace(account.Str("Subscriber_Name")), "N/A"),
			PortfolioType:             account.Str("Portfolio_Type"),
			OpenDate:                  toDate(account.Str("Open_Date")),
			CreditLimit:               toInt(account.Str("Credit_Limit_Amount")),
			HighestCredit:             toInt(account.Str("Highest_Credit_or_Original_Loan_Amount")),
			CurrentBalance:            toInt(account.Str("Current_Balance")),
			AmountOverdue:             toInt(account.Str("Amount_Past_Due")),
			AccountStatus:             accountStatusLabel(account.Str("Account_Status")),
			PaymentRating:             account.Str("Payment_Rating"),
			PaymentHistoryProfile:     account.Str("Payment_History_Profile"),
			DateReported:              toDate(account.Str("Date_Reported")),
			DateClosed:                toDate(account.Str("Date_Closed")),
			Currency:                  defaultStr(account.Str("CurrencyCode"), "INR"),
			AccountHolderType:         account.Str("AccountHoldertypeCode"),
			Address:                   holderAddress(account),
			IdentificationNumber:      account.Str("Identification_Number"),
			TermsDuration:             account.Str("Terms_Duration"),
			TermsFrequency:            account.Str("Terms_Frequency"),
			ScheduledMonthlyPayment:   toInt(account.Str("Scheduled_Monthly_Payment_Amount")),
			SpecialComment:            account.Str("Special_Comment"),
			OriginalChargeOffAmount:   toInt(account.Str("Original_Charge_Off_Amount")),
			DateOfFirstDelinquency:    toDate(account.Str("Date_of_First_Delinquency")),
			DateOfLastPayment:         toDate(account.Str("Date_of_Last_Payment")),
			SuitFiledWilfulDefault:    account.Str("SuitFiled_WilfulDefault"),
			WrittenOffSettledStatus:   account.Str("Written_off_Settled_Status"),
			ValueOfCollateral:         toInt(account.Str("Value_of_Collateral")),
			TypeOfCollateral:          account.Str("Type_of_Collateral"),
			WrittenOffAmountTotal:     toInt(account.Str("Written_Off_Amt_Total")),
			WrittenOffAmountPrincipal: toInt(account.Str("Written_Off_Amt_Principal")),
			RateOfInterest:            toDecimal(account.Str("Rate_of_Interest")),
			RepaymentTenure:           toInt(account.Str("Repayment_Tenure")),
			SubscriberComments:        account.Str("Subscriber_comments"),
			ConsumerComments:          account.Str("Consumer_comments"),
		}
		out = append(out, entry)
	}
	return out
}

func holderAddress(account xmltree.Node) *Address {
	addr := account.Child("CAIS_Holder_Address_Details")
	if addr == nil {
		return nil
	}
	return &Address{
		Line1:   addr.Str("First_Line_Of_Address_non_normalized"),
		Line2:   addr.Str("Second_Line_Of_Address_non_normalized"),
		City:    addr.Str("City_non_normalized"),
		State:   addr.Str("State_non_normalized"),
		Pincode: addr.Str("ZIP_Postal_Code_non_normalized"),
		Country: defaultStr(addr.Str("CountryCode_non_normalized"), "IB"),
		Type:    "current",
	}
}

// extractAddresses collects one address per tradeline and deduplicates by
// (line1, line2, city), keeping first occurrence order.
func extractAddresses(profile xmltree.Node) []Address {
	var addresses []Address
	for _, account := range accountList(profile) {
		if addr := holderAddress(account); addr != nil {
			addresses = append(addresses, *addr)
		}
	}
	return dedupAddresses(addresses)
}

func dedupAddresses(addresses []Address) []Address {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]Address, 0, len(addresses))
	for _, addr := range addresses {
		key := addr.Line1 + "\x00" + addr.Line2 + "\x00" + addr.City
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}

func extractHeader(profile xmltree.Node) Header {
	header := profile.Child("Header")
	return Header{
		SystemCode:  header.Str("SystemCode"),
		ReportDate:  toDate(header.Str("ReportDate")),
		ReportTime:  header.Str("ReportTime"),
		MessageText: header.Str("MessageText"),
	}
}

func extractCreditProfileHeader(profile xmltree.Node) CreditProfileHeader {
	header := profile.Child("CreditProfileHeader")
	return CreditProfileHeader{
		EnquiryUsername: header.Str("Enquiry_Username"),
		ReportDate:      toDate(header.Str("ReportDate")),
		ReportTime:      header.Str("ReportTime"),
		Version:         header.Str("Version"),
		ReportNumber:    header.Str("ReportNumber"),
		SubscriberName:  header.Str("Subscriber_Name"),
	}
}

func extractMatchResult(profile xmltree.Node) MatchResult {
	return MatchResult{
		ExactMatch: defaultStr(profile.Child("Match_result").Str("Exact_match"), "N"),
	}
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
