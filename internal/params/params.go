package params

const (
	// MaxModulusBits caps the size of a loaded RSA modulus. Key loading
	// rejects anything larger so that attacker-supplied key text cannot
	// drive the quadratic-cost arithmetic into unbounded work.
	MaxModulusBits = 4096

	// MaxExponentBits bounds the exponent for the same reason: modexp
	// running time is linear in the exponent's bit length.
	MaxExponentBits = 4096

	MaxModulusBytes = MaxModulusBits / 8
)
