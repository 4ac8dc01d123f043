package model

import "github.com/signalsfoundry/skyframe/constants"

// MWA returns the location of the Murchison Widefield Array.
func MWA() ObservatoryLocation {
	return ObservatoryLocation{
		Name: "MWA",
		Geodetic: GeodeticPosition{
			Latitude:  constants.MWALatitudeRad,
			Longitude: constants.MWALongitudeRad,
			Height:    constants.MWAHeightM,
		},
	}
}
