package io

import (
	"fmt"
	"io"

	"github.com/phil-mansfield/synthlos/los"
)

// WriteIntegral writes one row per requested time: the time followed by the
// integral of each channel.
func WriteIntegral(w io.Writer, res los.Integral) error {
	var ts los.Times
	switch r := res.(type) {
	case *los.ChannelIntegral:
		ts = r.Times
		if _, err := fmt.Fprintf(w, "# t ch_0 ... ch_%d\n", len(r.Values[0]) - 1); err != nil {
			return err
		}
	case *los.ScalarIntegral:
		ts = r.Times
		if _, err := fmt.Fprintln(w, "# t integral"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("Unrecognized integral type %T.", res)
	}

	for it, t := range ts.Values() {
		if _, err := fmt.Fprintf(w, "%.6g", t); err != nil { return err }
		for _, v := range res.At(it) {
			if _, err := fmt.Fprintf(w, " %.8g", v); err != nil { return err }
		}
		if _, err := fmt.Fprintln(w); err != nil { return err }
	}
	return nil
}

// WriteGeometry writes one row per channel with the entry point, the wall
// point, and the true length of each line of sight.
func WriteGeometry(w io.Writer, l *los.LineOfSight) error {
	_, err := fmt.Fprintf(
		w, "# %s: %d channels, dl = %g, L = %g\n" +
			"# ch start_x start_y start_z end_x end_y end_z length\n",
		l.Name, l.Channels(), l.DL(), l.Grid().Length,
	)
	if err != nil { return err }

	for c, ray := range l.Rays() {
		_, err := fmt.Fprintf(
			w, "%3d %9.5f %9.5f %9.5f %9.5f %9.5f %9.5f %9.5f\n", c,
			ray.Start.X, ray.Start.Y, ray.Start.Z,
			ray.End.X, ray.End.Y, ray.End.Z, ray.TrueLength,
		)
		if err != nil { return err }
	}
	return nil
}

// WriteImpact writes one row per channel with its impact parameter. If
// impactRho is non-nil, the minimum rho of the channel at each time is
// appended.
func WriteImpact(
	w io.Writer, ips []los.ImpactParameter, impactRho [][]float64,
) error {
	if _, err := fmt.Fprintln(w, "# ch index p x y z R [rho_min(t)...]"); err != nil {
		return err
	}

	for c, ip := range ips {
		_, err := fmt.Fprintf(
			w, "%3d %5d %9.5f %9.5f %9.5f %9.5f %9.5f",
			c, ip.Index, ip.Value, ip.X, ip.Y, ip.Z, ip.R,
		)
		if err != nil { return err }
		for it := range impactRho {
			_, err := fmt.Fprintf(w, " %9.5f", impactRho[it][c])
			if err != nil { return err }
		}
		if _, err := fmt.Fprintln(w); err != nil { return err }
	}
	return nil
}
