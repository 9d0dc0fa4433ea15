package safe

import (
	"sync"
	"testing"

	"github.com/worklane/worklane/pkg/log"
)

func TestDoRecoversFromPanic(t *testing.T) {
	log.MustInit(log.SetDefaults())

	// 不应该向上抛出 panic
	Do(func() {
		panic("boom")
	})
}

func TestGoRunsFunction(t *testing.T) {
	log.MustInit(log.SetDefaults())

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	Go(func() {
		ran = true
		wg.Done()
	})
	wg.Wait()
	if !ran {
		t.Error("expected goroutine to run")
	}
}
