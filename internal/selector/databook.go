package selector

import (
	"sort"

	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/internal/validation"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

// DatabookMatch is one published catalog entry satisfying a requirement.
type DatabookMatch struct {
	Record      validation.ManufacturerRecord `json:"record"`
	GasMass     float64                       `json:"gas_mass"`
	LoadMargin  float64                       `json:"load_margin"`
	SpeedMargin float64                       `json:"speed_margin"`
}

// SearchDatabook filters catalog records against a requirement and ranks
// the matches by the mass of their inflation charge, lightest first, with
// rated load as tiebreaker. It is the off-the-shelf baseline the
// optimizer's custom designs are judged against.
func SearchDatabook(model *tiremodel.Model, records []validation.ManufacturerRecord, req models.Requirement) []DatabookMatch {
	var out []DatabookMatch
	for _, rec := range records {
		if rec.RatedLoad < req.RequiredLoad || rec.SpeedIndex < req.RequiredSpeedIndex {
			continue
		}
		out = append(out, DatabookMatch{
			Record:      rec,
			GasMass:     model.GasMass(meanGeometry(rec), rec.RatedPressure),
			LoadMargin:  rec.RatedLoad - req.RequiredLoad,
			SpeedMargin: rec.SpeedIndex - req.RequiredSpeedIndex,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GasMass != out[j].GasMass {
			return out[i].GasMass < out[j].GasMass
		}
		return out[i].Record.RatedLoad < out[j].Record.RatedLoad
	})
	return out
}

// meanGeometry builds the torus dimensions mass estimation needs, from the
// published extremes when the catalog carries them and the nominal size
// otherwise.
func meanGeometry(rec validation.ManufacturerRecord) models.GeometricState {
	g := models.GeometricState{
		MeanOverallDiameter: rec.OverallDiameter,
		MeanSectionWidth:    rec.SectionWidth,
	}
	if rec.OutsideDiameterMax > 0 && rec.OutsideDiameterMin > 0 {
		g.MeanOverallDiameter = (rec.OutsideDiameterMax + rec.OutsideDiameterMin) / 2
	}
	if rec.SectionWidthMax > 0 && rec.SectionWidthMin > 0 {
		g.MeanSectionWidth = (rec.SectionWidthMax + rec.SectionWidthMin) / 2
	}
	return g
}

// SearchCatalogs loads every configured catalog and searches it for
// entries meeting the requirement.
func (s *Selector) SearchCatalogs(req models.Requirement) ([]DatabookMatch, error) {
	policy, err := units.ParseConversionPolicy(s.cfg.MetricConversion)
	if err != nil {
		return nil, err
	}
	var records []validation.ManufacturerRecord
	for _, cat := range s.cfg.Catalogs {
		recs, stats, err := validation.LoadCatalog(cat.Path, cat.Construction, policy)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded catalog",
			"catalog", cat.Name, "parsed", stats.Parsed, "skipped", stats.Skipped)
		records = append(records, recs...)
	}
	return SearchDatabook(s.model, records, req), nil
}
