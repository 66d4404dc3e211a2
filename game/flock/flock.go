package flock

import "github.com/overdrive-game/hordeai/geom"

// Neighbor is the minimal view of a nearby agent the steering math needs.
type Neighbor struct {
	Pos geom.Vec3
	Vel geom.Vec3
}

// Weights scale the three flocking components. Zero values are replaced by
// the defaults when a group is created.
type Weights struct {
	Cohesion   float64
	Separation float64
	Alignment  float64
}

// DefaultWeights are the tuned per-group defaults.
var DefaultWeights = Weights{Cohesion: 0.8, Separation: 0.6, Alignment: 0.7}

// Cohesion returns the pull from pos toward the neighbor centroid. Zero
// with no neighbors.
func Cohesion(pos geom.Vec3, neighbors []Neighbor) geom.Vec3 {
	if len(neighbors) == 0 {
		return geom.Vec3{}
	}
	var centroid geom.Vec3
	for _, n := range neighbors {
		centroid = centroid.Add(n.Pos)
	}
	centroid = centroid.Scale(1 / float64(len(neighbors)))
	return centroid.Sub(pos)
}

// Separation pushes away from neighbors closer than minSpacing, weighted
// by how deep inside the spacing they are. Zero when every neighbor keeps
// its distance.
func Separation(pos geom.Vec3, neighbors []Neighbor, minSpacing float64) geom.Vec3 {
	if minSpacing <= 0 {
		return geom.Vec3{}
	}
	var out geom.Vec3
	for _, n := range neighbors {
		d := pos.Dist(n.Pos)
		if d >= minSpacing {
			continue
		}
		away := pos.Sub(n.Pos).Norm()
		if d < 1e-9 {
			// Overlapping agents: push along X so the force is non-zero.
			away = geom.Vec3{X: 1}
		}
		out = out.Add(away.Scale((minSpacing - d) / minSpacing))
	}
	return out
}

// Alignment matches the average neighbor velocity.
func Alignment(vel geom.Vec3, neighbors []Neighbor) geom.Vec3 {
	if len(neighbors) == 0 {
		return geom.Vec3{}
	}
	var avg geom.Vec3
	for _, n := range neighbors {
		avg = avg.Add(n.Vel)
	}
	avg = avg.Scale(1 / float64(len(neighbors)))
	return avg.Sub(vel)
}

// Steer combines the three components under the given weights into a
// single movement adjustment.
func Steer(pos, vel geom.Vec3, neighbors []Neighbor, w Weights, minSpacing float64) geom.Vec3 {
	adj := Cohesion(pos, neighbors).Scale(w.Cohesion)
	adj = adj.Add(Separation(pos, neighbors, minSpacing).Scale(w.Separation))
	adj = adj.Add(Alignment(vel, neighbors).Scale(w.Alignment))
	return adj
}
