package analysis

import (
	"fmt"
	"strings"
)

// Platform is the social network an export originates from.
type Platform string

const (
	PlatformUnknown   Platform = "unknown"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Title returns the display name, e.g. "Facebook".
func (p Platform) Title() string {
	switch p {
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	default:
		return "Unknown"
	}
}

// ParsePlatform maps user input to a Platform. "", "auto" and "unknown"
// all mean "no override".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "unknown":
		return PlatformUnknown, nil
	case "facebook", "fb":
		return PlatformFacebook, nil
	case "instagram", "ig":
		return PlatformInstagram, nil
	default:
		return PlatformUnknown, fmt.Errorf("unsupported platform: %s (use facebook|instagram|auto)", s)
	}
}

const (
	facebookDomain  = "facebook.com"
	instagramDomain = "instagram.com"
)

// Column names that only one of the two exports carries. Compared
// case-insensitively; shared names such as "Permalink" count for neither.
var (
	facebookSignature = []string{
		"page id", "page name", "title", "caption type", "is crosspost", "is share",
		"reactions, comments and shares", "reactions", "total clicks", "link clicks",
		"other clicks", "seconds viewed", "average seconds viewed",
		"lifetime post total video views", "lifetime total video views",
	}
	instagramSignature = []string{
		"account id", "account username", "account name", "likes", "saves", "follows",
		"content type", "plays",
	}
	// Post-type vocabulary seen in Facebook page exports.
	facebookTypeTerms = []string{"page", "status", "link", "photos", "videos"}
)

// RuleResult is the verdict of one detection tier.
type RuleResult struct {
	Rule     string   `json:"rule"`
	Platform Platform `json:"platform"`
	Detail   string   `json:"detail"`
}

// Detection is the outcome of platform auto-detection with the trace of
// every consulted tier.
type Detection struct {
	Platform Platform     `json:"platform"`
	Rule     string       `json:"rule,omitempty"`
	Trace    []RuleResult `json:"trace"`
}

type platformRule struct {
	name string
	eval func(t *Table, f Fields) (Platform, string)
}

// platformRules are evaluated in order; the first conclusive verdict wins.
var platformRules = []platformRule{
	{"url-domain", ruleURLDomain},
	{"column-signature", ruleColumnSignature},
	{"type-values", ruleTypeValues},
}

// DetectPlatform infers the export's platform. It never mutates t.
func DetectPlatform(t *Table) Detection {
	f := ResolveFields(t)
	d := Detection{Platform: PlatformUnknown}
	for _, r := range platformRules {
		p, detail := r.eval(t, f)
		d.Trace = append(d.Trace, RuleResult{Rule: r.name, Platform: p, Detail: detail})
		if p != PlatformUnknown {
			d.Platform = p
			d.Rule = r.name
			return d
		}
	}
	return d
}

func ruleURLDomain(t *Table, f Fields) (Platform, string) {
	if f.Permalink == "" {
		return PlatformUnknown, "no permalink column"
	}
	var fb, ig int
	for _, row := range t.Rows {
		v := strings.ToLower(row.Get(f.Permalink))
		fb += strings.Count(v, facebookDomain)
		ig += strings.Count(v, instagramDomain)
	}
	detail := fmt.Sprintf("%s: %s=%d %s=%d", f.Permalink, facebookDomain, fb, instagramDomain, ig)
	switch {
	case fb > ig && fb > 0:
		return PlatformFacebook, detail
	case ig > fb && ig > 0:
		return PlatformInstagram, detail
	}
	return PlatformUnknown, detail
}

func ruleColumnSignature(t *Table, _ Fields) (Platform, string) {
	cols := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		cols[strings.ToLower(strings.TrimSpace(c))] = true
	}
	score := func(sig []string) int {
		n := 0
		for _, s := range sig {
			if cols[s] {
				n++
			}
		}
		return n
	}
	fb, ig := score(facebookSignature), score(instagramSignature)
	detail := fmt.Sprintf("facebook=%d instagram=%d", fb, ig)
	switch {
	case fb > ig && fb >= 1:
		return PlatformFacebook, detail
	case ig > fb && ig >= 1:
		return PlatformInstagram, detail
	}
	return PlatformUnknown, detail
}

func ruleTypeValues(t *Table, f Fields) (Platform, string) {
	col := f.typeColumn(t)
	if col == "" {
		return PlatformUnknown, "no type column"
	}
	var reel, fbTerm bool
	for _, row := range t.Rows {
		v := strings.ToLower(row.Get(col))
		if v == "" {
			continue
		}
		if strings.Contains(v, "reel") {
			reel = true
		}
		for _, term := range facebookTypeTerms {
			if strings.Contains(v, term) {
				fbTerm = true
			}
		}
	}
	detail := fmt.Sprintf("%s: reel=%t facebook-terms=%t", col, reel, fbTerm)
	if reel && !fbTerm {
		return PlatformInstagram, detail
	}
	return PlatformUnknown, detail
}

// PlatformChoice keeps the auto-detected and the effective platform apart.
type PlatformChoice struct {
	Detected  Platform `json:"detected"`
	Effective Platform `json:"effective"`
	Override  bool     `json:"override"`
	Rule      string   `json:"rule,omitempty"`
}

// ResolvePlatform applies an explicit override on top of detection. An
// override of PlatformUnknown means "use detection".
func ResolvePlatform(d Detection, override Platform) PlatformChoice {
	c := PlatformChoice{Detected: d.Platform, Effective: d.Platform, Rule: d.Rule}
	if override != PlatformUnknown {
		c.Effective = override
		c.Override = true
	}
	return c
}
