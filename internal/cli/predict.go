package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/diabetes-app/internal/app"
	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/patient"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assess one patient from flags",
		Example: `  diabetes predict --age 52 --gender Male --polyuria Yes --polydipsia No \
    --sudden-weight-loss Yes --alopecia No`,
		RunE: runPredict,
	}
	f := cmd.Flags()
	f.String("age", "", "Age in years (0-100)")
	f.String("gender", "", "Male or Female")
	f.String("polyuria", "", "Excessive urination: Yes or No")
	f.String("polydipsia", "", "Excessive thirst: Yes or No")
	f.String("sudden-weight-loss", "", "Sudden weight loss: Yes or No")
	f.String("alopecia", "", "Hair loss: Yes or No")
	f.Bool("json", false, "Print the result as JSON")
	return cmd
}

var flagForField = map[string]string{
	patient.FieldAge:              "age",
	patient.FieldGender:           "gender",
	patient.FieldPolyuria:         "polyuria",
	patient.FieldPolydipsia:       "polydipsia",
	patient.FieldSuddenWeightLoss: "sudden-weight-loss",
	patient.FieldAlopecia:         "alopecia",
}

func runPredict(cmd *cobra.Command, args []string) error {
	form, err := patient.ParseValues(func(field string) string {
		v, _ := cmd.Flags().GetString(flagForField[field])
		return v
	})
	if err != nil {
		return err
	}
	// Reject before loading a model.
	if _, err := form.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := toolLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	p, err := app.NewPredictor(ctx, cfg.Model, log)
	if err != nil {
		return err
	}
	svc, err := assessment.NewService(assessment.Deps{Predictor: p, Log: log, Engine: cfg.Model.Engine})
	if err != nil {
		return err
	}
	res, err := svc.Assess(ctx, form)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(out, "The patient is: %s.\n", res.Outcome)
	fmt.Fprintf(out, "Decision path: %s (%s)\n", res.PathKey, res.Asset)
	return nil
}
