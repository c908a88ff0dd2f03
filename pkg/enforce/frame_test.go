// pkg/enforce/frame_test.go

package enforce

import "github.com/mmp/dronewarden/pkg/trace"

// frame is a named-field shorthand for building a test Signal's current
// tick; zero-valued fields are left at zero.
type frame struct {
	posN, posE, posD             float32
	velN, velE, velD              float32
	enemyPosN, enemyPosE, enemyPosD float32
	enemyVelN, enemyVelE, enemyVelD float32
}

// sigWith builds a fresh default Signal and appends one frame built from f.
func sigWith(f frame) *trace.Signal {
	sig := trace.NewDefault()
	sig.Append([]float32{
		f.posN, f.posE, f.posD,
		f.velN, f.velE, f.velD,
		f.enemyPosN, f.enemyPosE, f.enemyPosD,
		f.enemyVelN, f.enemyVelE, f.enemyVelD,
	})
	return sig
}
