// Package web renders the single-page form and its result.
package web

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/decisionpath"
	"github.com/yungbote/diabetes-app/internal/patient"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateName   = "index.html"
	DefaultMessage = "Complete the patient's information."
	DefaultCaption = "Generated Decision Tree"
)

// FormValues echoes the submitted strings back into the form controls.
type FormValues struct {
	Age              string
	Gender           string
	Polyuria         string
	Polydipsia       string
	SuddenWeightLoss string
	Alopecia         string
}

// Choice is one radio group on the page.
type Choice struct {
	Name     string
	Label    string
	Options  []string
	Selected string
}

type View struct {
	Version  string
	Form     FormValues
	Choices  []Choice
	Error    string
	Outcome  string
	Message  string
	ImageURL string
	Caption  string
	MinAge   int
	MaxAge   int
}

type Presenter struct {
	tmpl     *template.Template
	version  string
	assetURL func(name string) string
}

// New parses the embedded page template. assetURL maps an asset name to the URL
// the browser should load it from.
func New(version string, assetURL func(name string) string) (*Presenter, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Presenter{tmpl: tmpl, version: version, assetURL: assetURL}, nil
}

// Template exposes the parsed set for gin's HTML renderer.
func (p *Presenter) Template() *template.Template { return p.tmpl }

// Default is the page before a successful submission. errMsg is shown above the
// form when non-empty.
func (p *Presenter) Default(values FormValues, errMsg string) View {
	v := p.base(values)
	v.Error = errMsg
	v.Message = DefaultMessage
	v.ImageURL = p.assetURL(decisionpath.DefaultAsset)
	v.Caption = DefaultCaption
	return v
}

// Result is the page after a prediction.
func (p *Presenter) Result(res *assessment.Result) View {
	v := p.base(ValuesFromInput(res.Input))
	v.Outcome = res.Outcome
	v.ImageURL = p.assetURL(res.Asset)
	v.Caption = res.Caption
	return v
}

func (p *Presenter) Render(w io.Writer, v View) error {
	return p.tmpl.ExecuteTemplate(w, TemplateName, v)
}

func (p *Presenter) base(values FormValues) View {
	return View{
		Version: p.version,
		Form:    values,
		MinAge:  patient.MinAge,
		MaxAge:  patient.MaxAge,
		Choices: []Choice{
			{Name: patient.FieldGender, Label: "Gender:", Options: []string{string(patient.Male), string(patient.Female)}, Selected: values.Gender},
			{Name: patient.FieldPolyuria, Label: "Polyuria (Excessive urination):", Options: yesNo, Selected: values.Polyuria},
			{Name: patient.FieldPolydipsia, Label: "Polydipsia (Excessive thirst):", Options: yesNo, Selected: values.Polydipsia},
			{Name: patient.FieldSuddenWeightLoss, Label: "Sudden weight loss:", Options: yesNo, Selected: values.SuddenWeightLoss},
			{Name: patient.FieldAlopecia, Label: "Alopecia (Hair loss):", Options: yesNo, Selected: values.Alopecia},
		},
	}
}

var yesNo = []string{string(patient.Yes), string(patient.No)}

// ValuesFromForm normalizes a parsed form for redisplay.
func ValuesFromForm(f patient.Form) FormValues {
	var v FormValues
	if f.Age != nil {
		v.Age = strconv.Itoa(*f.Age)
	}
	if f.Gender != nil {
		v.Gender = string(*f.Gender)
	}
	answer := func(a *patient.Answer) string {
		if a == nil {
			return ""
		}
		return string(*a)
	}
	v.Polyuria = answer(f.Polyuria)
	v.Polydipsia = answer(f.Polydipsia)
	v.SuddenWeightLoss = answer(f.SuddenWeightLoss)
	v.Alopecia = answer(f.Alopecia)
	return v
}

func ValuesFromInput(in patient.Input) FormValues {
	return ValuesFromForm(in.Form())
}
