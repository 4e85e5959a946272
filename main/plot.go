package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/synthlos/los"
)

var colors = []string{
	"r", "darkorange", "gold", "g", "b", "purple", "k",
}

// plotLineOfSight draws the valid samples of every channel in the poloidal
// (R, z) plane along with the vessel box, and in the toroidal (x, y) plane
// along with the inner and outer walls. The figures are saved to fname with
// "_poloidal" and "_toroidal" inserted before the extension.
func plotLineOfSight(l *los.LineOfSight, fname string) {
	g := l.Grid()
	box := l.Box()
	ext := filepath.Ext(fname)
	base := strings.TrimSuffix(fname, ext)

	plt.Figure(plt.FigSize(8, 8))
	plt.Plot(
		[]float64{box.RMin, box.RMax, box.RMax, box.RMin, box.RMin},
		[]float64{box.ZMin, box.ZMin, box.ZMax, box.ZMax, box.ZMin},
		"k", plt.LW(2),
	)
	for c := 0; c < l.Channels(); c++ {
		Rs, zs := validPoints(g.R[c], g.Z[c])
		plt.Plot(Rs, zs, plt.LW(2), plt.C(colors[c % len(colors)]))
	}
	plt.Title(fmt.Sprintf("%s: poloidal plane", l.Name))
	plt.XLabel(`$R$ [m]`, plt.FontSize(16))
	plt.YLabel(`$z$ [m]`, plt.FontSize(16))
	plt.SaveFig(base + "_poloidal" + ext)

	plt.Figure(plt.FigSize(8, 8))
	for _, r := range []float64{box.RMin, box.RMax} {
		xs, ys := circle(r, 200)
		plt.Plot(xs, ys, "k", plt.LW(2))
	}
	for c := 0; c < l.Channels(); c++ {
		xs, ys := validPoints(g.X[c], g.Y[c])
		plt.Plot(xs, ys, plt.LW(2), plt.C(colors[c % len(colors)]))
	}
	plt.Title(fmt.Sprintf("%s: toroidal plane", l.Name))
	plt.XLabel(`$x$ [m]`, plt.FontSize(16))
	plt.YLabel(`$y$ [m]`, plt.FontSize(16))
	plt.XLim(-box.RMax, +box.RMax)
	plt.YLim(-box.RMax, +box.RMax)

	plt.SaveFig(base + "_toroidal" + ext)

	plt.Execute()
}

// validPoints drops NaN samples.
func validPoints(xs, ys []float64) ([]float64, []float64) {
	outX, outY := make([]float64, 0, len(xs)), make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) { continue }
		outX, outY = append(outX, xs[i]), append(outY, ys[i])
	}
	return outX, outY
}

func circle(r float64, n int) (xs, ys []float64) {
	xs, ys = make([]float64, n+1), make([]float64, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		xs[i], ys[i] = r*math.Cos(theta), r*math.Sin(theta)
	}
	return xs, ys
}
