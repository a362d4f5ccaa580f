// internal/report/template.go
package report

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Exam Readiness Report - {{.Result.Profile.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: .4rem .6rem; text-align: left; }
.kpi { display: inline-block; margin-right: 2rem; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Exam Readiness Report</h1>
<p>Generated {{.GeneratedAt}}</p>

<h2>Profile</h2>
<table>
<tr><th>Name</th><td>{{.Result.Profile.Name}}</td></tr>
<tr><th>Target major</th><td>{{.Result.Profile.Major}}</td></tr>
<tr><th>Target institution</th><td>{{.Result.Profile.Institution}}</td></tr>
<tr><th>Cluster</th><td>{{.Result.Band.Label}} ({{whole .Result.Band.Min}}–{{whole .Result.Band.Max}})</td></tr>
</table>

<h2>Summary</h2>
<div class="kpi"><strong>Weighted score</strong><br>{{score .Result.Composite}}</div>
<div class="kpi"><strong>Mean subtest score</strong><br>{{score .Result.Mean}}</div>
<div class="kpi"><strong>Admission chance</strong><br><span style="color: {{.Result.Probability.Color}}">{{.Result.Probability.Label}} ({{percent .Result.Probability.Percentage}})</span></div>
<div class="kpi"><strong>Gap to minimum</strong><br>{{signed .Result.Gap}}</div>
{{if .ShowVerdict}}
<p id="strategy"><strong>Recommended strategy:</strong> {{.Result.Strategy.Label}}{{with .Result.Strategy.Confidence}} (confidence {{percent .}}){{end}}{{with .Result.Strategy.Detail}}. {{.Description}}{{end}}</p>
{{with .Result.Strategy.Detail}}<ul>{{range .Tips}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{end}}

<h2>Subtest breakdown</h2>
<table>
<tr><th>Subtest</th><th>Score</th><th>Weight</th><th>Contribution</th></tr>
{{range .Result.Contributions}}<tr><td>{{.Name}} ({{.Subtest}})</td><td>{{.Score}}</td><td>{{weight .Weight}}</td><td>{{score .Points}}</td></tr>
{{end}}</table>

<h2>Readiness indices</h2>
<table>
<tr><th>Psychological readiness</th><td>{{whole .Result.Indices.Psychological}}</td></tr>
<tr><th>Study consistency</th><td>{{whole .Result.Indices.Consistency}}</td></tr>
<tr><th>Mental stability</th><td>{{whole .Result.Indices.Stability}}</td></tr>
<tr><th>Underperformance risk</th><td>{{.Result.Risk.Level}}: {{.Result.Risk.Advisory}}</td></tr>
</table>

<h2>Survey answers</h2>
<table>
{{range .Psychology}}<tr><th>{{.Label}}</th><td>{{.Value}} / 5</td></tr>
{{end}}{{range .Behavior}}<tr><th>{{.Label}}</th><td>{{.Value}} / 5</td></tr>
{{end}}</table>

{{if .Result.Alternatives}}
<h2>Alternative majors</h2>
<ol>{{range .Result.Alternatives}}<li>{{.}}</li>{{end}}</ol>
{{end}}

{{if .Plan}}
<h2>Weekly study plan</h2>
<table>
<tr><th>Week</th><th>Phase</th><th>Target</th><th>Daily study</th><th>Tasks</th></tr>
{{range .Plan}}<tr><td>{{.Week}}</td><td>{{.Phase}}</td><td>{{whole .TargetScore}}</td><td>{{.DailyStudy}}</td><td><ul>{{range .Tasks}}<li>{{.}}</li>{{end}}</ul></td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`
