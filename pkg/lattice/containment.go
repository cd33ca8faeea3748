package lattice

import "fluid-cv/pkg/geom"

// Contained reports whether every basis direction is covered by at least one
// neighbour within the basis tolerance. The result is cached until the
// neighbour set changes.
func (c *Cell) Contained() bool {
	if c.checked && c.checkedRev == c.rev {
		return c.contained
	}
	return c.CheckContainment()
}

// CheckContainment recomputes the containment flag from the current
// neighbours, stores it and returns it.
func (c *Cell) CheckContainment() bool {
	c.contained = c.covers()
	c.checkedRev = c.rev
	c.checked = true
	return c.contained
}

func (c *Cell) covers() bool {
	tol := c.basis.tolerance
	for _, dir := range c.basis.dirs {
		matched := false
		for _, l := range c.neighbors {
			if c.within(geom.UnitAngle(dir, l.Dir), tol) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (c *Cell) within(angle, tol float64) bool {
	if c.match == MatchInclusive {
		return angle <= tol
	}
	return angle < tol
}
