package auth

import "strings"

// Surface is a routed area of the service. Guests only ever touch the
// ordering surface; settlement and kitchen actions are staff-only.
type Surface string

const (
	SurfaceOrdering Surface = "ordering"
	SurfaceKitchen  Surface = "kitchen"
	SurfaceCheckout Surface = "checkout"
	SurfaceFloor    Surface = "floor"
)

var surfacePrefixes = map[string]Surface{
	"/api/pos/tables": SurfaceOrdering,
	"/api/pos/carts":  SurfaceOrdering,
	"/api/kitchen":    SurfaceKitchen,
	"/api/checkout":   SurfaceCheckout,
	"/api/pos/floor":  SurfaceFloor,
}

var roleSurfaces = map[UserRole]map[Surface]bool{
	RoleOwner: {
		SurfaceOrdering: true,
		SurfaceKitchen:  true,
		SurfaceCheckout: true,
		SurfaceFloor:    true,
	},
	RoleEmployee: {
		SurfaceOrdering: true,
		SurfaceKitchen:  true,
		SurfaceCheckout: true,
		SurfaceFloor:    true,
	},
	RoleGuest: {
		SurfaceOrdering: true,
	},
}

// SurfaceForPath maps a request path to the surface guarding it. Longest
// prefix wins so /api/pos/floor is not swallowed by /api/pos.
func SurfaceForPath(path string) (Surface, bool) {
	var best string
	var surface Surface
	for prefix, s := range surfacePrefixes {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
			surface = s
		}
	}
	return surface, best != ""
}

func (r UserRole) Allowed(surface Surface) bool {
	return roleSurfaces[r][surface]
}
