package pagespeed

import "math"

// Audits reported as core web vitals, by Lighthouse audit id.
const (
	AuditFCP = "first-contentful-paint"
	AuditLCP = "largest-contentful-paint"
	AuditTBT = "total-blocking-time"
	AuditCLS = "cumulative-layout-shift"
	AuditSI  = "speed-index"
)

type CategoryScore struct {
	Score int     `json:"score"`
	Title *string `json:"title"`
}

// Metrics are the display strings Lighthouse renders, e.g. "1.2 s".
type Metrics struct {
	FirstContentfulPaint   *string `json:"first-contentful-paint"`
	LargestContentfulPaint *string `json:"largest-contentful-paint"`
	TotalBlockingTime      *string `json:"total-blocking-time"`
	CumulativeLayoutShift  *string `json:"cumulative-layout-shift"`
	SpeedIndex             *string `json:"speed-index"`
}

type Report struct {
	URL       string                   `json:"url"`
	Strategy  string                   `json:"strategy"`
	FinalURL  *string                  `json:"finalUrl"`
	FetchTime *string                  `json:"fetchTime"`
	Scores    map[string]CategoryScore `json:"scores"`
	Metrics   Metrics                  `json:"coreWebVitals"`
}

// Shape reduces a raw runPagespeed response to a Report. raw is treated as
// untrusted: any missing or mistyped key yields a zero or null field.
func Shape(req Request, raw map[string]any) *Report {
	lr, _ := dig(raw, "lighthouseResult").(map[string]any)

	rep := &Report{
		URL:      req.URL,
		Strategy: req.Strategy,
		Scores:   map[string]CategoryScore{},
	}
	rep.FinalURL = firstString(dig(lr, "finalUrl"), dig(lr, "finalDisplayedUrl"))
	rep.FetchTime = firstString(dig(lr, "fetchTime"), dig(raw, "analysisUTCTimestamp"))

	if cats, ok := dig(lr, "categories").(map[string]any); ok {
		for id, v := range cats {
			cat, _ := v.(map[string]any)
			rep.Scores[id] = CategoryScore{
				Score: percent(dig(cat, "score")),
				Title: firstString(dig(cat, "title")),
			}
		}
	}

	audits, _ := dig(lr, "audits").(map[string]any)
	display := func(id string) *string { return firstString(dig(audits, id, "displayValue")) }
	rep.Metrics = Metrics{
		FirstContentfulPaint:   display(AuditFCP),
		LargestContentfulPaint: display(AuditLCP),
		TotalBlockingTime:      display(AuditTBT),
		CumulativeLayoutShift:  display(AuditCLS),
		SpeedIndex:             display(AuditSI),
	}
	return rep
}

// dig walks nested JSON objects, returning nil as soon as a step is missing.
func dig(v any, path ...string) any {
	for _, k := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func str(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func firstString(vs ...any) *string {
	for _, v := range vs {
		if s, ok := str(v); ok {
			return &s
		}
	}
	return nil
}

// percent scales a [0,1] Lighthouse score to a rounded 0-100 integer.
func percent(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return int(math.Round(f * 100))
}
