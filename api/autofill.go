package api

import (
	"context"
	"time"

	"shortlink-admin/client"
	"shortlink-admin/debounce"
)

// TitleAutoFill fetches the title of a URL while it is being edited. Only the
// last edit within the wait period is looked up; a lookup superseded by a
// newer edit is cancelled and its result discarded.
type TitleAutoFill struct {
	links     *LinkAPI
	debouncer *debounce.Debouncer
	onTitle   func(rawURL, title string)
}

// NewTitleAutoFill calls onTitle with each title that is still current when it arrives.
func NewTitleAutoFill(links *LinkAPI, wait time.Duration, onTitle func(rawURL, title string)) *TitleAutoFill {
	return &TitleAutoFill{
		links:     links,
		debouncer: debounce.New(wait),
		onTitle:   onTitle,
	}
}

// Edit records the latest value of the URL field.
func (f *TitleAutoFill) Edit(rawURL string) {
	if err := validate.Var(rawURL, "required,url"); err != nil {
		f.debouncer.Cancel()
		return
	}
	f.debouncer.Schedule(func(ctx context.Context) {
		title, err := f.links.FetchTitle(ctx, rawURL, client.Silent())
		if err != nil || ctx.Err() != nil {
			return
		}
		f.onTitle(rawURL, title)
	})
}

// Stop cancels any pending lookup.
func (f *TitleAutoFill) Stop() {
	f.debouncer.Cancel()
}
