package parser

import "sort"

// BuildDealPrompt returns the extraction instructions sent ahead of the
// document blocks.
func BuildDealPrompt() string {
	return `You are a financial document data extraction assistant for skilled-nursing and senior-housing acquisitions. Analyze the provided deal document(s) and extract ALL data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Financial figures must be plain numbers with no currency symbols, commas, or unit suffixes.
- Percentages are numbers from 0 to 100 (e.g. occupancy of 87.5%, not 0.875).
- Prefer trailing-twelve-month (TTM) figures for revenue, expenses, NOI, and EBITDAR when multiple periods are present; note the period used in "reporting_period".
- Never invent values. If a field is not present in the documents, use null.

Return ONLY valid JSON with no markdown formatting, no code fences, and no explanation: just the raw JSON object.

Return top-level keys "fields", "confidence", and "sources".

The "fields" object must follow this schema (null for anything not found):
{
  "deal_name": null, "facility_name": null, "facility_type": null,
  "address": null, "city": null, "state": null,
  "beds": null, "units": null, "occupancy_pct": null,
  "asking_price": null, "price_per_bed": null,
  "annual_revenue": null, "annual_expenses": null,
  "noi": null, "ebitdar": null, "margin_pct": null,
  "price_multiple": null, "cap_rate_pct": null,
  "medicare_rate": null, "medicaid_rate": null, "private_pay_rate": null,
  "payer_mix_medicare_pct": null, "payer_mix_medicaid_pct": null, "payer_mix_private_pct": null,
  "rate_tables": [
    {"payer": "", "rate": 0, "unit": "per_patient_day", "effective_period": ""}
  ],
  "reporting_period": null, "period_months": null,
  "document_types": [], "data_quality_notes": [],
  "observations": {
    "strengths": [], "risks": [], "missing_data": [], "calculation_notes": []
  },
  "broker_name": null
}

The "confidence" object mirrors "fields" with one of "high", "medium", "low", or "not_found" for each field.

The "sources" object mirrors "fields" with a short citation for each extracted value (document name, page or sheet, and the line or label it came from), or null for fields not found.`
}

// BuildClosingInstructions returns the instruction block appended after the
// document blocks, describing cross-referencing expectations.
func BuildClosingInstructions(documentCount int) string {
	if documentCount <= 1 {
		return `Extract the data from the document above. Cite the document name in each "sources" entry.`
	}
	return `Cross-reference the documents above when extracting:
- The same metric may appear in several documents; prefer the most recent and most detailed source, and cite it.
- Financial statements override broker summaries when they disagree; note disagreements in observations.risks.
- Record every document's type in "document_types" (e.g. offering_memorandum, financial_statement, rent_roll, census_report).
- Each "sources" citation must name the specific DOCUMENT it came from so values can be traced back by position.`
}

// BuildPeriodInstructions renders the optional period-analysis hint as an
// instruction block inserted ahead of the closing instructions.
func BuildPeriodInstructions(recommendedPeriod string, overlappingMonths []string, perMonthSources map[string]string) string {
	out := `PERIOD GUIDANCE:
Target reporting period: ` + recommendedPeriod + "\n"
	if len(overlappingMonths) > 0 {
		out += "Months covered by more than one document: "
		for i, m := range overlappingMonths {
			if i > 0 {
				out += ", "
			}
			out += m
		}
		out += "\n"
	}
	if len(perMonthSources) > 0 {
		months := make([]string, 0, len(perMonthSources))
		for m := range perMonthSources {
			months = append(months, m)
		}
		sort.Strings(months)
		out += "Use these documents as the source of record per month:\n"
		for _, month := range months {
			out += "- " + month + ": " + perMonthSources[month] + "\n"
		}
	}
	out += `Combine monthly figures into the target period exactly; do not double-count overlapping months.`
	return out
}
