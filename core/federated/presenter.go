// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package federated

import (
	"github.com/atotto/clipboard"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
)

// Presenter shows a consent URL to the user.
type Presenter interface {
	Present(providerName, consentURL string)
}

type PresenterFunc func(providerName, consentURL string)

func (f PresenterFunc) Present(providerName, consentURL string) { f(providerName, consentURL) }

// ClipboardPresenter reports the consent URL as a status and copies it to the
// system clipboard when one is available.
type ClipboardPresenter struct {
	reporter Reporter
	copy     func(string) error
}

func NewClipboardPresenter(r Reporter) *ClipboardPresenter {
	return &ClipboardPresenter{reporter: r, copy: clipboard.WriteAll}
}

func (p *ClipboardPresenter) Present(providerName, consentURL string) {
	logging.Infof("%s consent URL: %s", providerName, consentURL)

	text := i18n.T("status.consent_url", consentURL)
	if !clipboard.Unsupported && p.copy != nil {
		if err := p.copy(consentURL); err == nil {
			text += " " + i18n.T("status.consent_copied")
		} else {
			logging.Debugf("could not copy consent URL: %v", err)
		}
	}
	if p.reporter != nil {
		p.reporter.Report(account.Progress(text))
	}
}
