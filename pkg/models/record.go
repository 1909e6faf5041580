package models

import "strconv"

// RecordColumns is the flat-record field vocabulary shared with the
// manufacturer catalogs, so selector output can be compared column-for-column
// against databook rows.
var RecordColumns = []string{
	"Pre", "M", "N", "D", "PR", "SI", "Lm", "IP", "BL",
	"DoMax", "DoMin", "WMax", "WMin", "DsMax", "WsMax",
	"AR", "LR_RL", "LR_BL", "A", "RD", "FH", "G", "DF",
	"DG", "WG", "DSG", "WSG",
}

// FlatRecord renders the ranked design as one row under RecordColumns.
// The bottoming load column follows the databook convention of three times
// the rated load.
func (rd RankedDesign) FlatRecord() []string {
	d := rd.Design
	g := rd.Geometry
	r := rd.Result

	f := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return []string{
		string(d.Prefix),
		f(d.NominalOverallDiameter),
		f(d.NominalSectionWidth),
		f(d.RimDiameter),
		strconv.Itoa(d.PlyRating),
		f(d.SpeedIndex),
		f(r.RatedLoad),
		f(r.InflationPressure),
		f(3 * r.RatedLoad),
		f(g.OutsideDiameterMax),
		f(g.OutsideDiameterMin),
		f(g.SectionWidthMax),
		f(g.SectionWidthMin),
		f(g.ShoulderDiameterMax),
		f(g.ShoulderWidthMax),
		f(g.AspectRatio),
		f(g.StaticLoadedRadiusRated),
		f(g.StaticLoadedRadiusBottoming),
		f(g.RimWidthBetweenFlanges),
		f(d.RimDiameter),
		f(g.FlangeHeight),
		f(g.TreadGauge),
		f(g.OuterFlangeDiameter),
		f(g.GrownDiameter),
		f(g.GrownWidth),
		f(g.GrownShoulderDiameter),
		f(g.GrownShoulderWidth),
	}
}
