// Package synthesis exposes the evidence-synthesis engines as a modular
// service provider: effect normalization, heterogeneity assessment,
// publication-bias screening, and GRADE certainty grading.
package synthesis

import (
	"context"
	"fmt"

	"github.com/evisynth/backend/internal/providers/synthesis/bias"
	"github.com/evisynth/backend/internal/providers/synthesis/common"
	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
	"github.com/evisynth/backend/internal/providers/synthesis/effect"
	"github.com/evisynth/backend/internal/providers/synthesis/grade"
	"github.com/evisynth/backend/internal/providers/synthesis/heterogeneity"
	"github.com/evisynth/backend/internal/types"
)

// Provider implements evidence-synthesis operations
type Provider struct {
	heterogeneity *heterogeneity.Engine
	bias          *bias.Engine
	grade         *grade.Engine
}

// NewProvider creates a synthesis provider with the given scoring constants.
func NewProvider(scoring confidence.Config) *Provider {
	return &Provider{
		heterogeneity: heterogeneity.New(scoring),
		bias:          bias.New(scoring),
		grade:         grade.New(scoring),
	}
}

// Definition returns service metadata with all module tools
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "synthesis",
		Name:        "Evidence Synthesis Service",
		Description: "Meta-analysis statistics (heterogeneity, publication bias, GRADE certainty)",
		Category:    types.CategorySynthesis,
		Capabilities: []string{
			"normalization",
			"heterogeneity",
			"publication_bias",
			"funnel_plot",
			"grade",
			"recommendation",
		},
		Tools: p.tools(),
		DataModels: []types.DataModel{
			{
				Name: "StudyEffect",
				Fields: map[string]string{
					"id":             "string",
					"effect_size":    "number",
					"standard_error": "number (optional if CI bounds given)",
					"ci_lower":       "number (optional)",
					"ci_upper":       "number (optional)",
					"sample_size":    "integer (optional)",
				},
			},
		},
	}
}

func (p *Provider) tools() []types.Tool {
	studiesParam := types.Parameter{Name: "studies", Type: "array", Description: "Array of study effect records", Required: true}

	return []types.Tool{
		{
			ID:          "synthesis.normalize",
			Name:        "Normalize Effect Sizes",
			Description: "Derive missing standard errors from 95% CI bounds",
			Parameters:  []types.Parameter{studiesParam},
			Returns:     "array",
		},
		{
			ID:          "synthesis.heterogeneity",
			Name:        "Heterogeneity Assessment",
			Description: "Q, I², τ², H², prediction interval and model recommendation",
			Parameters:  []types.Parameter{studiesParam},
			Returns:     "object",
		},
		{
			ID:          "synthesis.bias",
			Name:        "Publication Bias Assessment",
			Description: "Egger and Begg asymmetry tests with overall verdict",
			Parameters: []types.Parameter{
				studiesParam,
				{Name: "pooled_effect", Type: "number", Description: "Fixed-effect estimate to center the funnel on", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "synthesis.funnel",
			Name:        "Funnel Plot Data",
			Description: "Per-study effect, standard error and precision",
			Parameters:  []types.Parameter{studiesParam},
			Returns:     "array",
		},
		{
			ID:          "synthesis.grade",
			Name:        "GRADE Assessment",
			Description: "Starting quality, downgrade/upgrade aggregation and final certainty",
			Parameters: []types.Parameter{
				{Name: "study_design", Type: "string", Description: "randomized_trial | observational | case_series | case_report", Required: true},
				{Name: "downgrades", Type: "object", Description: "Five fixed downgrade domains", Required: true},
				{Name: "upgrades", Type: "object", Description: "Three fixed upgrade domains (observational only)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "synthesis.recommend",
			Name:        "Recommendation Strength",
			Description: "Strong/weak recommendation with itemized rationale",
			Parameters: []types.Parameter{
				{Name: "quality", Type: "string", Description: "Final GRADE quality level", Required: true},
				{Name: "balance", Type: "string", Description: "clearly_favors | uncertain", Required: true},
				{Name: "values", Type: "string", Description: "consistent | variable", Required: true},
				{Name: "resource_use", Type: "string", Description: "low | moderate | high", Required: false},
			},
			Returns: "object",
		},
	}
}

// Execute routes to the appropriate engine
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "synthesis.normalize":
		return p.normalize(params)
	case "synthesis.heterogeneity":
		return p.assessHeterogeneity(params)
	case "synthesis.bias":
		return p.assessBias(params)
	case "synthesis.funnel":
		return p.funnel(params)
	case "synthesis.grade":
		return p.assessGrade(params)
	case "synthesis.recommend":
		return p.recommend(params)
	default:
		return common.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) normalize(params map[string]interface{}) (*types.Result, error) {
	studies, err := common.GetStudies(params, "studies")
	if err != nil {
		return common.Failure(err.Error())
	}

	normalized, err := effect.Normalize(studies)
	if err != nil {
		return common.Failure(err.Error())
	}

	return common.Success(map[string]interface{}{"studies": normalized})
}

func (p *Provider) assessHeterogeneity(params map[string]interface{}) (*types.Result, error) {
	studies, err := common.GetStudies(params, "studies")
	if err != nil {
		return common.Failure(err.Error())
	}

	result, err := p.heterogeneity.Assess(studies)
	if err != nil {
		return common.Failure(err.Error())
	}

	data, err := common.ToMap(result)
	if err != nil {
		return common.Failure(err.Error())
	}
	return common.Success(data)
}

func (p *Provider) assessBias(params map[string]interface{}) (*types.Result, error) {
	studies, err := common.GetStudies(params, "studies")
	if err != nil {
		return common.Failure(err.Error())
	}

	var pooled *float64
	if v, ok := common.GetNumber(params, "pooled_effect"); ok {
		pooled = &v
	}

	result, err := p.bias.Assess(studies, pooled)
	if err != nil {
		return common.Failure(err.Error())
	}

	data, err := common.ToMap(result)
	if err != nil {
		return common.Failure(err.Error())
	}
	return common.Success(data)
}

func (p *Provider) funnel(params map[string]interface{}) (*types.Result, error) {
	studies, err := common.GetStudies(params, "studies")
	if err != nil {
		return common.Failure(err.Error())
	}

	points, err := p.bias.Funnel(studies)
	if err != nil {
		return common.Failure(err.Error())
	}

	return common.Success(map[string]interface{}{"funnel": points})
}

func (p *Provider) assessGrade(params map[string]interface{}) (*types.Result, error) {
	design, ok := common.GetString(params, "study_design")
	if !ok {
		return common.Failure("study_design parameter required")
	}

	in := grade.Input{StudyDesign: types.StudyDesign(design)}
	if err := common.Decode(params, "downgrades", &in.Downgrades); err != nil {
		return common.Failure(err.Error())
	}
	if _, present := params["upgrades"]; present {
		if err := common.Decode(params, "upgrades", &in.Upgrades); err != nil {
			return common.Failure(err.Error())
		}
	}

	result, err := p.grade.Assess(in)
	if err != nil {
		return common.Failure(err.Error())
	}

	data, err := common.ToMap(result)
	if err != nil {
		return common.Failure(err.Error())
	}
	return common.Success(data)
}

func (p *Provider) recommend(params map[string]interface{}) (*types.Result, error) {
	quality, ok := common.GetString(params, "quality")
	if !ok {
		return common.Failure("quality parameter required")
	}
	balance, ok := common.GetString(params, "balance")
	if !ok {
		return common.Failure("balance parameter required")
	}
	values, ok := common.GetString(params, "values")
	if !ok {
		return common.Failure("values parameter required")
	}
	resourceUse, _ := common.GetString(params, "resource_use")

	rec := grade.Recommend(grade.RecommendationInput{
		Quality:     types.QualityLevel(quality),
		Balance:     balance,
		Values:      values,
		ResourceUse: resourceUse,
	})

	return common.Success(map[string]interface{}{
		"strength":  rec.Strength,
		"rationale": rec.Rationale,
	})
}
