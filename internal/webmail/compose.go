package webmail

import (
	"context"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
)

// SendOne composes and sends a single message on an open session. Every
// failure during the attempt, element resolution included, is logged and
// reported as false: one bad send must never abort the batch or the
// session. The session snapshot is re-persisted after each send because the
// authenticated state may rotate.
func (s *Session) SendOne(ctx context.Context, draft model.Draft, attachments []string) bool {
	if err := s.transition("send", StateReady, StateSending); err != nil {
		zap.L().Error("send rejected", zap.Error(err))
		return false
	}
	defer s.setState(StateReady)

	log := zap.L().With(zap.String("to", draft.To), zap.String("candidate", draft.Candidate.Name))
	if err := s.sendOne(ctx, draft, attachments); err != nil {
		log.Error("send failed", zap.Error(err))
		return false
	}
	if err := s.persistSnapshot(); err != nil {
		log.Warn("session snapshot not persisted after send", zap.Error(err))
	}
	log.Info("message sent")
	return true
}

func (s *Session) sendOne(ctx context.Context, draft model.Draft, attachments []string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "webmail: send")
	}

	compose, err := s.openCompose()
	if err != nil {
		return err
	}
	// Let the compose form finish mounting before probing for fields.
	compose.WaitForTimeout(2500)

	surfaces := composeSurfaces(compose, frameHint)

	to, err := resolve(surfaces, "recipient field", toProbes)
	if err != nil {
		return err
	}
	if err := to.Fill(normalize.Email(draft.To)); err != nil {
		return eris.Wrap(err, "webmail: fill recipient")
	}
	compose.WaitForTimeout(300)

	subject, err := resolve(surfaces, "subject field", subjectProbes)
	if err != nil {
		return err
	}
	if err := subject.Fill(draft.Subject); err != nil {
		return eris.Wrap(err, "webmail: fill subject")
	}
	compose.WaitForTimeout(300)

	body, err := resolve(surfaces, "body field", bodyProbes)
	if err != nil {
		return err
	}
	if err := body.Click(); err != nil {
		return eris.Wrap(err, "webmail: focus body")
	}
	if err := body.Fill(draft.Body); err != nil {
		return eris.Wrap(err, "webmail: fill body")
	}

	for _, path := range attachments {
		s.attachFile(compose, surfaces, path)
	}

	// Dismiss any open menu by clicking into the body. Escape is off limits:
	// the mail client treats it as "close compose" and raises a destructive
	// "discard draft" confirmation.
	if dismissed, dErr := resolve(surfaces, "body field", bodyProbes); dErr == nil {
		_ = dismissed.Click()
		compose.WaitForTimeout(400)
	}

	send, err := resolve(surfaces, "send button", sendProbes)
	if err != nil {
		return err
	}
	if err := send.Click(); err != nil {
		return eris.Wrap(err, "webmail: click send")
	}
	compose.WaitForTimeout(3000)
	return nil
}

// openCompose activates the new-mail affordance and returns whichever
// surface the compose form appeared on: the same page (in-pane) or a fresh
// popup window.
func (s *Session) openCompose() (playwright.Page, error) {
	btn, err := resolve([]surface{pageSurface(s.page)}, "new mail button", newMailProbes)
	if err != nil {
		return nil, err
	}

	popup, popupErr := s.page.ExpectPopup(func() error {
		return btn.Click()
	}, playwright.PageExpectPopupOptions{Timeout: playwright.Float(4000)})
	if popupErr != nil {
		// No popup window: compose opened as an in-page pane.
		return s.page, nil
	}
	return popup, nil
}

// attachFile runs the attach affordance for one path. Attachment problems
// degrade gracefully: a missing file or an unresolvable chooser skips that
// attachment with a warning and the send continues without it.
func (s *Session) attachFile(compose playwright.Page, surfaces []surface, path string) {
	log := zap.L().With(zap.String("attachment", filepath.Base(path)))

	if _, err := os.Stat(path); err != nil {
		log.Warn("attachment skipped: file not found", zap.String("path", path))
		return
	}

	attachBtn, err := resolve(surfaces, "attach button", attachProbes)
	if err != nil {
		log.Warn("attachment skipped", zap.Error(err))
		return
	}
	if err := attachBtn.Click(); err != nil {
		log.Warn("attachment skipped: attach button click failed", zap.Error(err))
		return
	}
	compose.WaitForTimeout(800)

	if err := s.chooseAndUpload(compose, path); err != nil {
		log.Warn("attachment skipped", zap.Error(err))
		return
	}
	// Give the UI time to acknowledge upload before the next attachment.
	compose.WaitForTimeout(2000)
	log.Info("attachment added")
}

// chooseAndUpload resolves the menu entry that opens a native file chooser,
// trying each candidate label under each matching strategy in order.
func (s *Session) chooseAndUpload(compose playwright.Page, path string) error {
	strategies := []func(label string) playwright.Locator{
		func(label string) playwright.Locator {
			return compose.GetByRole(*playwright.AriaRoleMenuitem, playwright.PageGetByRoleOptions{Name: label})
		},
		func(label string) playwright.Locator {
			return compose.GetByText(label, playwright.PageGetByTextOptions{Exact: playwright.Bool(false)}).First()
		},
	}

	for _, strategy := range strategies {
		for _, label := range attachMenuLabels {
			item := strategy(label)
			if err := item.WaitFor(playwright.LocatorWaitForOptions{
				State:   playwright.WaitForSelectorStateVisible,
				Timeout: playwright.Float(2000),
			}); err != nil {
				continue
			}
			chooser, err := compose.ExpectFileChooser(func() error {
				return item.Click()
			}, playwright.PageExpectFileChooserOptions{Timeout: playwright.Float(8000)})
			if err != nil {
				continue
			}
			if err := chooser.SetFiles(path); err != nil {
				return eris.Wrap(err, "webmail: set chooser files")
			}
			return nil
		}
	}
	return &ElementError{Step: "file chooser menu entry"}
}
