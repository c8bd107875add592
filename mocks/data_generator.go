package mocks

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// PriceBar is one daily bar of a generated price history.
type PriceBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// CSVHeader is the header of a Yahoo Finance style price history export.
var CSVHeader = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// DataGenerator generates realistic daily price histories for testing.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how price bars are generated.
type GeneratorConfig struct {
	// StartDate is the date of the first bar
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:      time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          1000,
		InitialPrice:   3250.0,
		Volatility:     0.01,
		VolumeBase:     3500000000,
		VolumeVariance: 0.3,
	}
}

// Generate creates consecutive trading-day bars following a geometric
// Brownian motion. Weekends are skipped.
func (g *DataGenerator) Generate(config GeneratorConfig) []PriceBar {
	bars := make([]PriceBar, config.Count)
	currentPrice := config.InitialPrice
	currentDate := config.StartDate

	for i := 0; i < config.Count; i++ {
		for currentDate.Weekday() == time.Saturday || currentDate.Weekday() == time.Sunday {
			currentDate = currentDate.AddDate(0, 0, 1)
		}

		open := currentPrice

		// Box-Muller transform for a normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)

		low := math.Min(open, closePrice) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = PriceBar{
			Date:     currentDate,
			Open:     roundToDecimals(open, 6),
			High:     roundToDecimals(high, 6),
			Low:      roundToDecimals(low, 6),
			Close:    roundToDecimals(closePrice, 6),
			AdjClose: roundToDecimals(closePrice, 6),
			Volume:   int64(volume),
		}

		currentPrice = closePrice
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return bars
}

// Record formats a bar the way it appears in a CSV export.
func (b PriceBar) Record() []string {
	return []string{
		b.Date.Format("2006-01-02"),
		strconv.FormatFloat(b.Open, 'f', 6, 64),
		strconv.FormatFloat(b.High, 'f', 6, 64),
		strconv.FormatFloat(b.Low, 'f', 6, 64),
		strconv.FormatFloat(b.Close, 'f', 6, 64),
		strconv.FormatFloat(b.AdjClose, 'f', 6, 64),
		strconv.FormatInt(b.Volume, 10),
	}
}

// WriteCSV writes bars with CSVHeader as a CSV file.
func WriteCSV(w io.Writer, bars []PriceBar) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	for _, bar := range bars {
		if err := writer.Write(bar.Record()); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
