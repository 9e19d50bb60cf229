package usecase

import "time"

// SetNow overrides the lifecycle clock; only available to tests.
func (u *LifecycleUseCase) SetNow(now func() time.Time) {
	u.now = now
}
