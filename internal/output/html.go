package output

import (
	"fmt"
	"html/template"
	"io"
)

// htmlData feeds the report template.
type htmlData struct {
	Report     Report
	ScoreText  string
	ScorePct   float64
	ScoreClass string
	Passed     int
	Failed     int
}

// GenerateHTMLReport writes a standalone HTML page for the run.
func GenerateHTMLReport(w io.Writer, report Report) error {
	data := htmlData{
		Report:     report,
		ScoreText:  "NS",
		ScoreClass: "none",
	}
	if report.Apdex.Score != nil {
		score := *report.Apdex.Score
		data.ScoreText = fmt.Sprintf("%.2f", score)
		data.ScorePct = score * 100
		switch {
		case score >= 0.94:
			data.ScoreClass = "excellent"
		case score >= 0.85:
			data.ScoreClass = "good"
		case score >= 0.70:
			data.ScoreClass = "fair"
		default:
			data.ScoreClass = "poor"
		}
	}
	for _, a := range report.Assertions {
		if a.Pass {
			data.Passed++
		} else {
			data.Failed++
		}
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("parse HTML template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render HTML report: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Apdex Report {{.Report.RunID}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 720px; color: #222; }
  h1 { font-size: 1.4rem; }
  .score { font-size: 3rem; font-weight: 700; }
  .score.excellent { color: #0e7c66; }
  .score.good { color: #2e9e4f; }
  .score.fair { color: #b58a00; }
  .score.poor { color: #c0392b; }
  .score.none { color: #888; }
  .rating { color: #555; margin-left: 0.5rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
  .bar { background: #eee; height: 0.8rem; border-radius: 0.4rem; overflow: hidden; }
  .bar span { display: block; height: 100%; }
  .bar .satisfied { background: #2e9e4f; }
  .bar .tolerated { background: #b58a00; }
  .bar .frustrated { background: #c0392b; }
  .pass { color: #2e9e4f; }
  .fail { color: #c0392b; }
  .meta { color: #777; font-size: 0.85rem; margin-top: 2rem; }
</style>
</head>
<body>
<h1>Apdex Report</h1>
<div>
  <span class="score {{.ScoreClass}}">{{.ScoreText}}</span>
  <span class="rating">{{.Report.Apdex.Rating}} — {{.Report.Uniform}}</span>
</div>

<table>
  <tr><th>Zone</th><th>Count</th><th>Share</th><th></th></tr>
  <tr>
    <td>Satisfied</td><td>{{.Report.Apdex.Satisfied}}</td>
    <td>{{printf "%.1f" .Report.Apdex.SatisfiedPct}}%</td>
    <td><div class="bar"><span class="satisfied" style="width: {{printf "%.1f" .Report.Apdex.SatisfiedPct}}%"></span></div></td>
  </tr>
  <tr>
    <td>Tolerated</td><td>{{.Report.Apdex.Tolerated}}</td>
    <td>{{printf "%.1f" .Report.Apdex.ToleratedPct}}%</td>
    <td><div class="bar"><span class="tolerated" style="width: {{printf "%.1f" .Report.Apdex.ToleratedPct}}%"></span></div></td>
  </tr>
  <tr>
    <td>Frustrated</td><td>{{.Report.Apdex.Frustrated}}</td>
    <td>{{printf "%.1f" .Report.Apdex.FrustratedPct}}%</td>
    <td><div class="bar"><span class="frustrated" style="width: {{printf "%.1f" .Report.Apdex.FrustratedPct}}%"></span></div></td>
  </tr>
</table>

<table>
  <tr><td>Threshold</td><td>{{.Report.Apdex.Threshold}}s</td></tr>
  <tr><td>Total samples</td><td>{{.Report.Apdex.Total}}</td></tr>
  <tr><td>Invalid samples</td><td>{{.Report.Invalid}}</td></tr>
  <tr><td>Duration</td><td>{{printf "%.0f" .Report.DurationMs}}ms</td></tr>
</table>

{{if .Report.Assertions}}
<h1>Assertions ({{.Passed}} passed, {{.Failed}} failed)</h1>
<table>
  <tr><th>Assertion</th><th>Actual</th><th>Result</th></tr>
  {{range .Report.Assertions}}
  <tr>
    <td>{{.Raw}}</td>
    <td>{{printf "%.4g" .Actual}}</td>
    <td>{{if .Pass}}<span class="pass">PASS</span>{{else}}<span class="fail">FAIL</span>{{end}}</td>
  </tr>
  {{end}}
</table>
{{end}}

<p class="meta">Run {{.Report.RunID}} &middot; generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}}</p>
</body>
</html>
`
