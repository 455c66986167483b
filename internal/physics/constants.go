package physics

const (
	// G is the SI gravitational constant, used only for energy statistics
	// and escape velocity.
	G = 6.67430e-11

	// GVisual is the tuned constant of the on-screen force law.
	GVisual = 50.0

	EarthMass   = 5.972e24 // kg
	EarthRadius = 6.371e6  // m
	SolarMass   = 1.989e30 // kg
	AU          = 1.496e11 // m

	// ScaleFactor converts screen distance to meters for energy: d / ScaleFactor.
	ScaleFactor = 1e-9

	// TimeStep is fixed and never derived from wall-clock frame time.
	TimeStep = 0.008

	MaxTrailLength   = 800
	TrailSampleEvery = 3

	MinVisualRadius      = 3.0
	MaxVisualRadius      = 80.0
	BaseVisualRadius     = 8.0
	VisualRadiusExponent = 0.3

	// MinOrbitDistance is the closest a suggested orbit may be to its primary.
	MinOrbitDistance = 50.0

	// MinForceDistance is the degenerate-distance guard of the force law.
	MinForceDistance = 1.0

	EarthOrbitalVelocity = 29780.0 // m/s

	// ParallelThreshold is the body count from which pair forces fan out.
	ParallelThreshold = 16
)
