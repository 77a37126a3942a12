package types

// StudyEffect is a single study's contribution to a synthesis. Either
// StandardError or both CI bounds must be present; the normalizer derives
// the missing standard error from the 95% interval width.
type StudyEffect struct {
	ID            string   `json:"id"`
	EffectSize    float64  `json:"effect_size"`
	StandardError *float64 `json:"standard_error,omitempty"`
	CILower       *float64 `json:"ci_lower,omitempty"`
	CIUpper       *float64 `json:"ci_upper,omitempty"`
	SampleSize    *int     `json:"sample_size,omitempty"`
}

// SE returns the standard error, or 0 if it has not been normalized yet.
func (s StudyEffect) SE() float64 {
	if s.StandardError == nil {
		return 0
	}
	return *s.StandardError
}

// StudyDesign classifies the design of the underlying evidence body.
type StudyDesign string

const (
	DesignRandomizedTrial StudyDesign = "randomized_trial"
	DesignObservational   StudyDesign = "observational"
	DesignCaseSeries      StudyDesign = "case_series"
	DesignCaseReport      StudyDesign = "case_report"
)

// QualityLevel is the GRADE ordinal certainty scale.
type QualityLevel string

const (
	QualityVeryLow  QualityLevel = "very_low"
	QualityLow      QualityLevel = "low"
	QualityModerate QualityLevel = "moderate"
	QualityHigh     QualityLevel = "high"
)

var qualityScale = []QualityLevel{QualityVeryLow, QualityLow, QualityModerate, QualityHigh}

// Index returns the ordinal position of the level (very_low=0 .. high=3).
func (q QualityLevel) Index() int {
	for i, level := range qualityScale {
		if level == q {
			return i
		}
	}
	return 0
}

// QualityFromIndex maps an ordinal index back to a level, clamped to [0,3].
func QualityFromIndex(i int) QualityLevel {
	if i < 0 {
		i = 0
	}
	if i > len(qualityScale)-1 {
		i = len(qualityScale) - 1
	}
	return qualityScale[i]
}

// Severity grades a downgrade factor.
type Severity string

const (
	SeverityNone        Severity = "none"
	SeveritySerious     Severity = "serious"
	SeverityVerySerious Severity = "very_serious"
)

// Penalty returns the number of quality levels the severity removes.
func (s Severity) Penalty() int {
	switch s {
	case SeveritySerious:
		return 1
	case SeverityVerySerious:
		return 2
	default:
		return 0
	}
}

// UpgradeLevel grades an upgrade factor.
type UpgradeLevel string

const (
	UpgradeNone      UpgradeLevel = "none"
	UpgradeOneLevel  UpgradeLevel = "one_level"
	UpgradeTwoLevels UpgradeLevel = "two_levels"
)

// Credit returns the number of quality levels the upgrade adds.
func (u UpgradeLevel) Credit() int {
	switch u {
	case UpgradeOneLevel:
		return 1
	case UpgradeTwoLevels:
		return 2
	default:
		return 0
	}
}

// DowngradeFactor is one judged GRADE downgrade domain.
type DowngradeFactor struct {
	Severity  Severity `json:"downgrade"`
	Rationale string   `json:"rationale,omitempty"`
}

// DowngradeSet enumerates the five fixed GRADE downgrade domains. Fixed
// fields rather than a keyed map so every domain is always judged.
type DowngradeSet struct {
	RiskOfBias      DowngradeFactor `json:"risk_of_bias"`
	Inconsistency   DowngradeFactor `json:"inconsistency"`
	Indirectness    DowngradeFactor `json:"indirectness"`
	Imprecision     DowngradeFactor `json:"imprecision"`
	PublicationBias DowngradeFactor `json:"publication_bias"`
}

// Factors returns the five domains in canonical order.
func (d DowngradeSet) Factors() []DowngradeFactor {
	return []DowngradeFactor{d.RiskOfBias, d.Inconsistency, d.Indirectness, d.Imprecision, d.PublicationBias}
}

// UpgradeFactor is one judged GRADE upgrade domain.
type UpgradeFactor struct {
	Level     UpgradeLevel `json:"upgrade"`
	Rationale string       `json:"rationale,omitempty"`
}

// UpgradeSet enumerates the three fixed GRADE upgrade domains. Only
// meaningful for observational designs.
type UpgradeSet struct {
	LargeEffect  UpgradeFactor `json:"large_effect"`
	DoseResponse UpgradeFactor `json:"dose_response"`
	Confounders  UpgradeFactor `json:"confounders"`
}

// Factors returns the three domains in canonical order.
func (u UpgradeSet) Factors() []UpgradeFactor {
	return []UpgradeFactor{u.LargeEffect, u.DoseResponse, u.Confounders}
}

// Empty reports whether no upgrade was judged above none.
func (u UpgradeSet) Empty() bool {
	for _, f := range u.Factors() {
		if f.Level.Credit() > 0 {
			return false
		}
	}
	return true
}

// HeterogeneityResult summarizes between-study heterogeneity for one
// synthesis call. Percentages carry one decimal; effects are unrounded.
type HeterogeneityResult struct {
	AnalysisID      string   `json:"analysis_id"`
	Studies         int      `json:"studies"`
	PooledEffect    float64  `json:"pooled_effect"`
	PooledSE        float64  `json:"pooled_se"`
	Q               float64  `json:"q"`
	DF              int      `json:"df"`
	PValue          float64  `json:"p_value"`
	ISquared        float64  `json:"i_squared"`
	Category        string   `json:"category"`
	TauSquared      float64  `json:"tau_squared"`
	HSquared        float64  `json:"h_squared"`
	PredictionLower float64  `json:"prediction_lower"`
	PredictionUpper float64  `json:"prediction_upper"`
	Model           string   `json:"recommended_model"`
	Confidence      float64  `json:"confidence"`
	Warnings        []string `json:"warnings"`
}

// EggerResult holds the regression asymmetry test.
type EggerResult struct {
	Intercept   float64 `json:"intercept"`
	Slope       float64 `json:"slope"`
	InterceptSE float64 `json:"intercept_se"`
	T           float64 `json:"t"`
	DF          int     `json:"df"`
	PValue      float64 `json:"p_value"`
}

// BeggResult holds the rank-correlation asymmetry test.
type BeggResult struct {
	Tau    float64 `json:"tau"`
	Z      float64 `json:"z"`
	PValue float64 `json:"p_value"`
}

// FunnelPoint is one study's funnel-plot coordinate. Interval rendering
// belongs to the report layer, not the core.
type FunnelPoint struct {
	ID            string  `json:"id"`
	EffectSize    float64 `json:"effect_size"`
	StandardError float64 `json:"standard_error"`
	Precision     float64 `json:"precision"`
}

// BiasResult summarizes publication-bias screening for one synthesis call.
type BiasResult struct {
	AnalysisID   string        `json:"analysis_id"`
	Studies      int           `json:"studies"`
	PooledEffect float64       `json:"pooled_effect"`
	Egger        EggerResult   `json:"egger"`
	Begg         BeggResult    `json:"begg"`
	BiasDetected bool          `json:"bias_detected"`
	Assessment   string        `json:"assessment"`
	Funnel       []FunnelPoint `json:"funnel"`
	Confidence   float64       `json:"confidence"`
	Warnings     []string      `json:"warnings"`
}

// GradeResult summarizes a GRADE certainty assessment.
type GradeResult struct {
	AnalysisID      string       `json:"analysis_id"`
	StudyDesign     StudyDesign  `json:"study_design"`
	StartingQuality QualityLevel `json:"starting_quality"`
	TotalDowngrades int          `json:"total_downgrades"`
	TotalUpgrades   int          `json:"total_upgrades"`
	FinalQuality    QualityLevel `json:"final_quality"`
	Confidence      float64      `json:"confidence"`
	Warnings        []string     `json:"warnings"`
}

// Recommendation is the strength of a clinical recommendation derived
// from a graded body of evidence.
type Recommendation struct {
	Strength  string   `json:"strength"`
	Rationale []string `json:"rationale"`
}
