package service_test

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"cipherdoc/internal/service"
)

func TestTimerScheduler_FiresOnce(t *testing.T) {
	s := service.NewTimerScheduler(zap.NewNop())
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("a", time.Millisecond, func() { fired.Add(1) })

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times; want 1", got)
	}
}

func TestTimerScheduler_CancelPreventsFiring(t *testing.T) {
	s := service.NewTimerScheduler(zap.NewNop())
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	s.Cancel("a")

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after cancel; want 0", got)
	}
}

func TestTimerScheduler_RescheduleReplacesPending(t *testing.T) {
	s := service.NewTimerScheduler(zap.NewNop())
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("a", 10*time.Millisecond, func() { first.Add(1) })
	s.Schedule("a", time.Millisecond, func() { second.Add(1) })

	time.Sleep(50 * time.Millisecond)
	if got := first.Load(); got != 0 {
		t.Errorf("replaced task fired %d times; want 0", got)
	}
	if got := second.Load(); got != 1 {
		t.Errorf("replacement fired %d times; want 1", got)
	}
}

func TestTimerScheduler_StopCancelsAll(t *testing.T) {
	s := service.NewTimerScheduler(zap.NewNop())

	var fired atomic.Int32
	s.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("b", 10*time.Millisecond, func() { fired.Add(1) })
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Stop; want 0", got)
	}
}
