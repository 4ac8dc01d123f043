package frames

import (
	"fmt"

	"github.com/signalsfoundry/skyframe/epoch"
	"github.com/signalsfoundry/skyframe/model"
)

// Convert expresses p in sky frame to as seen from site at epoch at.
// Equatorial results are J2000 unless p is already equatorial.
func (t *Transformer) Convert(p model.SkyPosition, to model.SkyFrame, site model.ObservatoryLocation, at epoch.Epoch) (model.SkyPosition, error) {
	if p.Frame == to {
		return p, validateSky(p)
	}

	var (
		hd  model.HADec
		err error
	)
	switch p.Frame {
	case model.SkyEquatorial:
		hd, err = t.HourAngle(p.Equatorial(), site, at)
	case model.SkyHourAngle:
		hd = p.HADec()
		if err = hd.Validate(); err == nil {
			err = site.Validate()
		}
	case model.SkyHorizontal:
		h := p.Horizontal()
		if err = h.Validate(); err == nil {
			if err = site.Validate(); err == nil {
				hd = AzElToHADec(h, site.Latitude())
			}
		}
	default:
		return model.SkyPosition{}, fmt.Errorf("convert from %s: unknown sky frame", p.Frame)
	}
	if err != nil {
		return model.SkyPosition{}, err
	}

	switch to {
	case model.SkyEquatorial:
		eq, err := t.fromHADec(hd, site, at, model.J2000Frame())
		if err != nil {
			return model.SkyPosition{}, err
		}
		return eq.Sky(), nil
	case model.SkyHourAngle:
		return hd.Sky(), nil
	case model.SkyHorizontal:
		return HADecToAzEl(hd, site.Latitude()).Sky(), nil
	default:
		return model.SkyPosition{}, fmt.Errorf("convert to %s: unknown sky frame", to)
	}
}

func validateSky(p model.SkyPosition) error {
	switch p.Frame {
	case model.SkyEquatorial:
		return p.Equatorial().Validate()
	case model.SkyHourAngle:
		return p.HADec().Validate()
	case model.SkyHorizontal:
		return p.Horizontal().Validate()
	default:
		return fmt.Errorf("unknown sky frame %s", p.Frame)
	}
}
