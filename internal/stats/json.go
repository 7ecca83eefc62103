package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat encodes NaN and ±Inf as null, which encoding/json rejects otherwise.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = jsonFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type summaryWire struct {
	N             int       `json:"n"`
	Mean          jsonFloat `json:"mean"`
	GeometricMean jsonFloat `json:"geometric_mean"`
	StdDev        jsonFloat `json:"std_dev"`
	Min           jsonFloat `json:"min"`
	Max           jsonFloat `json:"max"`
	Q5            jsonFloat `json:"q5"`
	Median        jsonFloat `json:"median"`
	Q95           jsonFloat `json:"q95"`
	CV            jsonFloat `json:"cv"`
	QD            jsonFloat `json:"qd"`
	GSD           jsonFloat `json:"gsd"`
}

// MarshalJSON implements json.Marshaler. Undefined values encode as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryWire{
		N:             s.N,
		Mean:          jsonFloat(s.Mean),
		GeometricMean: jsonFloat(s.GeometricMean),
		StdDev:        jsonFloat(s.StdDev),
		Min:           jsonFloat(s.Min),
		Max:           jsonFloat(s.Max),
		Q5:            jsonFloat(s.Q5),
		Median:        jsonFloat(s.Median),
		Q95:           jsonFloat(s.Q95),
		CV:            jsonFloat(s.CV),
		QD:            jsonFloat(s.QD),
		GSD:           jsonFloat(s.GSD),
	})
}

// UnmarshalJSON implements json.Unmarshaler. null decodes as NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var w summaryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Summary{
		N:             w.N,
		Mean:          float64(w.Mean),
		GeometricMean: float64(w.GeometricMean),
		StdDev:        float64(w.StdDev),
		Min:           float64(w.Min),
		Max:           float64(w.Max),
		Q5:            float64(w.Q5),
		Median:        float64(w.Median),
		Q95:           float64(w.Q95),
		CV:            float64(w.CV),
		QD:            float64(w.QD),
		GSD:           float64(w.GSD),
	}
	return nil
}
