package model

import (
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
)

const demoSeed = 50

// DemoContent returns a fresh copy of the built-in sample day: three cauldrons around a
// market, one declared drain per cauldron and three tickets, one of them bogus.
func DemoContent() DatasetContent {
	return DatasetContent{
		Cauldrons: []*Cauldron{
			{ID: "c1", Name: "North Cauldron", Lat: 0.8, Lon: 0.2, MaxVolume: 1000, FillRatePerMin: 0.6, InitialVolume: null.FloatFrom(demoSeed)},
			{ID: "c2", Name: "East Cauldron", Lat: 0.6, Lon: 0.7, MaxVolume: 800, FillRatePerMin: 0.9, InitialVolume: null.FloatFrom(demoSeed)},
			{ID: "c3", Name: "South Cauldron", Lat: 0.2, Lon: 0.4, MaxVolume: 1200, FillRatePerMin: 0.4, InitialVolume: null.FloatFrom(demoSeed)},
			{ID: constant.MarketNodeID, Name: "Enchanted Market", Lat: 0.5, Lon: 0.5, MaxVolume: 99999, Kind: constant.MarketKind},
		},
		Edges: []*Edge{
			{From: "c1", To: "c2", TravelMin: 10},
			{From: "c2", To: "c3", TravelMin: 8},
			{From: "c3", To: "c1", TravelMin: 12},
			{From: "c1", To: constant.MarketNodeID, TravelMin: 7},
			{From: "c2", To: constant.MarketNodeID, TravelMin: 9},
			{From: "c3", To: constant.MarketNodeID, TravelMin: 6},
		},
		Drains: []*DrainEvent{
			{CauldronID: "c1", StartMin: 180, EndMin: 185, RemovedVolume: 150, Source: constant.DrainSourceDeclared},
			{CauldronID: "c2", StartMin: 480, EndMin: 485, RemovedVolume: 300, Source: constant.DrainSourceDeclared},
			{CauldronID: "c3", StartMin: 900, EndMin: 905, RemovedVolume: 250, Source: constant.DrainSourceDeclared},
		},
		Tickets: []*Ticket{
			{ID: "t1", Date: "2025-11-08", Amount: 150},
			{ID: "t2", Date: "2025-11-08", Amount: 285},
			{ID: "t3", Date: "2025-11-08", Amount: 400},
		},
	}
}
