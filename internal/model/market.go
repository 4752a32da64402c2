package model

import (
	"fmt"
	"time"
)

// Bar represents a single daily candlestick with its adjusted close.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	AdjClose float64
}

// PriceSeries holds raw daily price data for one symbol.
// It is written once by the collector and read-only afterwards.
type PriceSeries struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}

// Validate checks the series is non-empty with strictly increasing dates.
func (s *PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return fmt.Errorf("price series %s: no bars", s.Symbol)
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("price series %s: dates not strictly increasing at index %d (%s -> %s)",
				s.Symbol, i,
				s.Bars[i-1].Date.Format("2006-01-02"),
				s.Bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
