package utils

import (
	"regexp"
)

type jobCategory struct {
	name  string
	regex *regexp.Regexp
}

// categories are reported in table order
var jobCategories = []jobCategory{
	{"engineering", regexp.MustCompile(`(?i)\b(engineer(ing)?s?|developers?|software|backend|back-end|frontend|front-end|full[\s-]?stack|devops|sre|technical|tech)\b`)},
	{"data", regexp.MustCompile(`(?i)\b(data|analytics|machine learning|ml|ai|scientists?)\b`)},
	{"design", regexp.MustCompile(`(?i)\b(design(ers?)?|ux|ui|creative)\b`)},
	{"product", regexp.MustCompile(`(?i)\b(product)\b`)},
	{"sales", regexp.MustCompile(`(?i)\b(sales|account executives?|business development|bdr|sdr|go[\s-]to[\s-]market|gtm)\b`)},
	{"marketing", regexp.MustCompile(`(?i)\b(marketing|growth|content|seo|brand)\b`)},
	{"finance", regexp.MustCompile(`(?i)\b(finance|financial|accounting|fintech)\b`)},
	{"operations", regexp.MustCompile(`(?i)\b(operations|ops|supply chain|logistics)\b`)},
	{"healthcare", regexp.MustCompile(`(?i)\b(healthcare|clinical|medical|nursing)\b`)},
	{"executive", regexp.MustCompile(`(?i)\b(executive search|leadership|c-level|c-suite)\b`)},
}

// InferJobTypes tags free text (a role title or a bio) with the job categories it mentions
func InferJobTypes(text string) []string {
	types := []string{}
	for _, c := range jobCategories {
		if c.regex.MatchString(text) {
			types = append(types, c.name)
		}
	}
	return types
}
