package cmdshared

import (
	"fmt"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// ProgressReporter shows a progress bar while a directory is synchronised with a lockfile
type ProgressReporter struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

func (r *ProgressReporter) Deleted(filename string) {
	fmt.Printf("Deleted %s as it is not in the lockfile\n", filename)
}

func (r *ProgressReporter) Planned(count int) {
	if count == 0 {
		fmt.Println("All mods are already downloaded")
		return
	}
	r.progress = mpb.New(mpb.WithWidth(40))
	r.bar = r.progress.AddBar(int64(count),
		mpb.PrependDecorators(
			decor.Name("Downloading mods "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
}

func (r *ProgressReporter) Downloaded(string) {
	if r.bar != nil {
		r.bar.Increment()
	}
}

// Finish stops the progress bar, completing it early if the sync failed part way through
func (r *ProgressReporter) Finish() {
	if r.progress == nil {
		return
	}
	if !r.bar.Completed() {
		r.bar.SetTotal(r.bar.Current(), true)
	}
	r.progress.Wait()
}
