package export

import (
	"fmt"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
)

// RepRow is one rep record in the columnar export.
type RepRow struct {
	AnalysisID        string   `parquet:"name=analysis_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Exercise          string   `parquet:"name=exercise, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Index             int32    `parquet:"name=index, type=INT32"`
	StartT            float64  `parquet:"name=start_t, type=DOUBLE"`
	EndT              float64  `parquet:"name=end_t, type=DOUBLE"`
	DurationSeconds   float64  `parquet:"name=duration_seconds, type=DOUBLE"`
	MinAngle          float64  `parquet:"name=min_angle, type=DOUBLE"`
	MaxAngle          float64  `parquet:"name=max_angle, type=DOUBLE"`
	EccentricSeconds  float64  `parquet:"name=eccentric_seconds, type=DOUBLE"`
	ConcentricSeconds float64  `parquet:"name=concentric_seconds, type=DOUBLE"`
	GoodForm          bool     `parquet:"name=is_good_form, type=BOOLEAN"`
	Quality           string   `parquet:"name=quality, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Depth             float64  `parquet:"name=depth, type=DOUBLE"`
	StickingPoint     *float64 `parquet:"name=sticking_point, type=DOUBLE, repetitiontype=OPTIONAL"`
	TorsoLean         float64  `parquet:"name=torso_lean, type=DOUBLE"`
	FootLifted        bool     `parquet:"name=foot_lifted, type=BOOLEAN"`
	Momentum          float64  `parquet:"name=momentum, type=DOUBLE"`
	Symmetry          float64  `parquet:"name=symmetry, type=DOUBLE"`
	Height            float64  `parquet:"name=height, type=DOUBLE"`
	Distance          float64  `parquet:"name=distance, type=DOUBLE"`
	AirTimeSeconds    float64  `parquet:"name=air_time_seconds, type=DOUBLE"`
	Countermovement   float64  `parquet:"name=countermovement, type=DOUBLE"`
	LandingKnee       float64  `parquet:"name=landing_knee, type=DOUBLE"`
}

func NewRepRow(analysisID, exercise string, rec kinematics.RepRecord) RepRow {
	return RepRow{
		AnalysisID:        analysisID,
		Exercise:          exercise,
		Index:             int32(rec.Index),
		StartT:            rec.StartT,
		EndT:              rec.EndT,
		DurationSeconds:   rec.DurationSeconds,
		MinAngle:          rec.MinAngle,
		MaxAngle:          rec.MaxAngle,
		EccentricSeconds:  rec.EccentricSeconds,
		ConcentricSeconds: rec.ConcentricSeconds,
		GoodForm:          rec.GoodForm,
		Quality:           rec.Quality,
		Depth:             rec.Depth,
		StickingPoint:     rec.StickingPoint,
		TorsoLean:         rec.TorsoLean,
		FootLifted:        rec.FootLifted,
		Momentum:          rec.Momentum,
		Symmetry:          rec.Symmetry,
		Height:            rec.Height,
		Distance:          rec.Distance,
		AirTimeSeconds:    rec.AirTimeSeconds,
		Countermovement:   rec.Countermovement,
		LandingKnee:       rec.LandingKnee,
	}
}

// RepsParquet encodes the rep records of one analysis as a snappy compressed
// parquet file. An empty rep list still yields a valid file with the schema.
func RepsParquet(analysisID, exercise string, reps []kinematics.RepRecord) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(RepRow), 1)
	if err != nil {
		return nil, fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range reps {
		if err := pw.Write(NewRepRow(analysisID, exercise, rec)); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("write rep %d: %w", rec.Index, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finish parquet: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("close parquet buffer: %w", err)
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
