// Package tui is the terminal front end: the application shell, its
// screens, and the glue between user input and the view models.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/justify-app/justify/internal/bus"
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/inbox"
	"github.com/justify-app/justify/internal/session"
	"github.com/justify-app/justify/internal/tui/keys"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/justify-app/justify/internal/tui/views"
)

// Page names, also used as breadcrumb labels.
const (
	pageAuth       = "sign in"
	pageHome       = "home"
	pageInbox      = "inbox"
	pageThread     = "conversation"
	pageComplaints = "complaints"
	pageTickets    = "tickets"
	pageNews       = "news"
	pageStats      = "statistics"
)

// App is the terminal application shell.
type App struct {
	app      *tview.Application
	pages    *ui.Pages
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	crumbs   *ui.Crumbs
	menu     *ui.Menu

	client   *gateway.Client
	vm       *inbox.ViewModel
	poller   *inbox.Poller
	sessions *session.Store
	b        *bus.Bus
	logger   *zap.Logger

	statusBar      *views.StatusBar
	authView       *views.AuthView
	homeView       *views.HomeView
	correspondents *views.CorrespondentList
	thread         *views.ThreadView
	complaints     *views.ComplaintsView
	tickets        *views.TicketsView
	news           *views.NewsView
	stats          *views.StatsView

	components map[string]ui.Component

	self   session.Session
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(client *gateway.Client, vm *inbox.ViewModel, poller *inbox.Poller, sessions *session.Store, b *bus.Bus, logger *zap.Logger, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:      tview.NewApplication(),
		pages:    ui.NewPages(),
		theme:    theme,
		registry: keys.NewRegistry(),
		flash:    ui.NewFlashModel(),
		flashBar: ui.NewFlashBar(theme),
		crumbs:   ui.NewCrumbs(theme),
		menu:     ui.NewMenu(theme),

		client:   client,
		vm:       vm,
		poller:   poller,
		sessions: sessions,
		b:        b,
		logger:   logger,

		statusBar:      views.NewStatusBar(),
		authView:       views.NewAuthView(theme),
		homeView:       views.NewHomeView(theme),
		correspondents: views.NewCorrespondentList(theme),
		thread:         views.NewThreadView(theme),
		complaints:     views.NewComplaintsView(theme),
		tickets:        views.NewTicketsView(theme),
		news:           views.NewNewsView(theme),
		stats:          views.NewStatsView(theme),

		ctx:    ctx,
		cancel: cancel,
	}

	a.components = map[string]ui.Component{
		pageAuth:       a.authView,
		pageHome:       a.homeView,
		pageInbox:      a.correspondents,
		pageThread:     a.thread,
		pageComplaints: a.complaints,
		pageTickets:    a.tickets,
		pageNews:       a.news,
		pageStats:      a.stats,
	}

	a.statusBar.SetProfile(profileName)
	a.statusBar.SetState(string(vm.Panel().Current()))
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.watchBus()
	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "quit",
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddView(pageInbox, "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "filter",
		Handler: func() { a.app.SetFocus(a.correspondents.Filter()) },
	})
	a.registry.AddView(pageInbox, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "reload",
		Handler: func() { a.loadCorrespondents() },
	})
	a.registry.AddView(pageComplaints, "new", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "new complaint",
		Handler: func() { a.app.SetFocus(a.complaints.Form()) },
	})
	a.registry.AddView(pageComplaints, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "reload",
		Handler: func() { a.loadComplaints() },
	})
	a.registry.AddView(pageTickets, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "reload",
		Handler: func() { a.loadTickets() },
	})
	a.registry.AddView(pageNews, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "reload",
		Handler: func() { a.loadNews() },
	})
	a.registry.AddView(pageStats, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "reload",
		Handler: func() { a.loadStats() },
	})
}

func (a *App) setupCallbacks() {
	a.authView.SetOnLogin(a.login)
	a.authView.SetOnRegister(a.register)

	a.correspondents.SetOnSelect(a.openConversation)
	a.correspondents.SetOnFilter(a.vm.Filter)

	a.thread.SetOnSend(func(text string) {
		go func() {
			if !a.vm.Send(a.ctx, text) {
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.thread.RestoreDraft(a.vm.Draft())
				a.renderThread(false)
			})
		}()
	})

	a.complaints.SetOnSubmit(func(subject, category, description string) {
		go func() {
			err := a.client.SubmitComplaint(a.ctx, a.self.UserID, subject, category, description)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.flash.Err(err)
					a.renderFlash()
					return
				}
				a.flash.Info("Complaint submitted")
				a.renderFlash()
				a.complaints.ClearForm()
				a.app.SetFocus(a.complaints.Table())
			})
			if err == nil {
				a.loadComplaints()
			}
		}()
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageAuth, a.authView, true, false)
	a.pages.AddPage(pageHome, a.homeView, true, false)
	a.pages.AddPage(pageInbox, a.correspondents, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageComplaints, a.complaints, true, false)
	a.pages.AddPage(pageTickets, a.tickets, true, false)
	a.pages.AddPage(pageNews, a.news, true, false)
	a.pages.AddPage(pageStats, a.stats, true, false)

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		if c, ok := a.components[a.pages.Current()]; ok {
			a.menu.Update(c.Hints())
		}
	})

	header := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.crumbs, 0, 1, false).
		AddItem(a.menu, 0, 2, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	current := a.pages.Current()

	if event.Key() == tcell.KeyEscape && current != pageAuth && current != pageHome {
		if current == pageThread {
			a.vm.CloseConversation()
		}
		a.pages.Pop()
		a.focusCurrent()
		return nil
	}

	// Text inputs swallow everything else.
	switch a.app.GetFocus().(type) {
	case *tview.InputField, *tview.TextArea:
		return event
	}

	if current == pageThread && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
		a.app.SetFocus(a.thread.Composer())
		return nil
	}

	if a.registry.HandleEvent(current, event) {
		return nil
	}
	return event
}

// Run starts the terminal application. It restores a persisted session
// before the first draw, so a signed-in user never sees the auth screen.
func (a *App) Run() error {
	s, err := a.sessions.Get()
	if err != nil {
		a.logger.Warn("session restore failed", zap.Error(err))
	}
	if s != nil {
		a.signIn(*s, false)
	} else {
		a.pages.Reset(pageAuth)
		a.app.SetFocus(a.authView.Form())
	}

	a.poller.Start(a.ctx)
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.poller.Stop()
	a.cancel()
	a.app.Stop()
}

func (a *App) login(email, password string) {
	go func() {
		acct, err := a.client.Login(a.ctx, email, password)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.authView.ShowMessage("Sign in failed: " + err.Error())
				return
			}
			s := session.Session{UserID: acct.UserID, IsAdmin: acct.IsAdmin}
			if err := a.sessions.Set(s); err != nil {
				a.logger.Warn("session persist failed", zap.Error(err))
			}
			a.signIn(s, true)
		})
	}()
}

func (a *App) register(name, email, phone, password string) {
	go func() {
		err := a.client.Register(a.ctx, name, email, phone, password)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.authView.ShowMessage("Registration failed: " + err.Error())
				return
			}
			a.authView.ShowLogin()
			a.authView.ShowMessage("Account created, sign in below")
			a.app.SetFocus(a.authView.Form())
		})
	}()
}

// signIn installs the account and routes to its home screen. Admins land
// on the inbox; citizens get the service menu.
func (a *App) signIn(s session.Session, announce bool) {
	a.self = s
	a.vm.SetIdentity(s)

	role := "citizen"
	if s.IsAdmin {
		role = "admin"
	}
	a.statusBar.SetAccount(fmt.Sprintf("user %d (%s)", s.UserID, role))
	if announce {
		a.flash.Info("Signed in")
		a.renderFlash()
	}

	if s.IsAdmin {
		a.homeView.SetEntries([]string{"Inbox", "Statistics", "News", "Sign out"}, a.openMenuEntry)
	} else {
		a.homeView.SetEntries([]string{"Messages", "Complaints", "Tickets", "News", "Statistics", "Sign out"}, a.openMenuEntry)
	}
	a.pages.Reset(pageHome)
	a.app.SetFocus(a.homeView)
}

func (a *App) openMenuEntry(entry string) {
	switch entry {
	case "Inbox":
		a.pages.Push(pageInbox)
		a.app.SetFocus(a.correspondents.Table())
		a.loadCorrespondents()
	case "Messages":
		// Citizens have a single conversation with city hall.
		a.vm.OpenConversation(a.self.UserID)
		a.thread.SetCounterpartName("City Hall")
		a.pages.Push(pageThread)
		a.app.SetFocus(a.thread.Composer())
		a.fetchThread()
	case "Complaints":
		a.pages.Push(pageComplaints)
		a.app.SetFocus(a.complaints.Table())
		a.loadComplaints()
	case "Tickets":
		a.pages.Push(pageTickets)
		a.app.SetFocus(a.tickets.Table())
		a.loadTickets()
	case "News":
		a.pages.Push(pageNews)
		a.app.SetFocus(a.news.List())
		a.loadNews()
	case "Statistics":
		a.pages.Push(pageStats)
		a.app.SetFocus(a.stats)
		a.loadStats()
	case "Sign out":
		a.signOut()
	}
}

func (a *App) signOut() {
	if err := a.sessions.Clear(); err != nil {
		a.logger.Warn("session clear failed", zap.Error(err))
	}
	a.self = session.Session{}
	a.vm.SetIdentity(session.Session{})
	a.vm.CloseConversation()
	a.statusBar.SetAccount("")
	a.pages.Reset(pageAuth)
	a.authView.ShowLogin()
	a.authView.ShowMessage("")
	a.app.SetFocus(a.authView.Form())
}

func (a *App) openConversation(counterpartID int64) {
	name := fmt.Sprintf("user %d", counterpartID)
	for _, c := range a.vm.Correspondents() {
		if c.ID == counterpartID {
			name = c.DisplayName
			break
		}
	}
	a.vm.OpenConversation(counterpartID)
	a.thread.SetCounterpartName(name)
	a.pages.Push(pageThread)
	a.app.SetFocus(a.thread.Composer())
	a.fetchThread()
}

func (a *App) fetchThread() {
	go func() {
		err := a.vm.FetchConversation(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(err)
				a.renderFlash()
			}
			a.vm.RestoreFailedDraft()
			a.thread.RestoreDraft(a.vm.Draft())
			a.renderThread(true)
		})
		if err == nil {
			a.markIncomingRead()
		}
	}()
}

// markIncomingRead reports a read receipt for the newest incoming message,
// best effort.
func (a *App) markIncomingRead() {
	var newest int64
	for _, e := range a.vm.Entries() {
		if !e.Pending && e.Message.SenderID != a.self.UserID && e.Message.DeliveryState != gateway.StateRead {
			newest = e.Message.ID
		}
	}
	if newest != 0 {
		a.vm.MarkRead(a.ctx, newest)
	}
}

func (a *App) loadCorrespondents() {
	go func() {
		err := a.vm.LoadCorrespondents(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Warn("Offline: showing cached contacts")
				a.renderFlash()
			}
			a.correspondents.Update(a.vm.Correspondents(), a.vm.ListError())
		})
	}()
}

func (a *App) loadComplaints() {
	go func() {
		list, err := a.client.ListComplaints(a.ctx, a.self.UserID)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(err)
				a.renderFlash()
				return
			}
			a.complaints.Update(list)
		})
	}()
}

func (a *App) loadTickets() {
	go func() {
		list, err := a.client.ListTickets(a.ctx, a.self.UserID)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(err)
				a.renderFlash()
				return
			}
			a.tickets.Update(list)
		})
	}()
}

func (a *App) loadNews() {
	go func() {
		list, err := a.client.ListNews(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(err)
				a.renderFlash()
				return
			}
			a.news.Update(list)
		})
	}()
}

func (a *App) loadStats() {
	go func() {
		s, err := a.client.GetStatistics(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(err)
				a.renderFlash()
				return
			}
			a.stats.Update(s)
		})
	}()
}

// watchBus redraws the conversation screen when the view model publishes
// changes, including poll refreshes that arrived off the UI thread.
func (a *App) watchBus() {
	if a.b == nil {
		return
	}
	ch, unsub := a.b.Subscribe("inbox.", 16)
	go func() {
		defer unsub()
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				appended, _ := evt.Payload.(bool)
				a.app.QueueUpdateDraw(func() {
					a.statusBar.SetState(string(a.vm.Panel().Current()))
					if evt.Kind == bus.KindInboxSendFailed {
						a.flash.Warn("Send failed, message restored to composer")
						a.thread.RestoreDraft(a.vm.Draft())
					}
					a.renderFlash()
					if a.pages.Current() == pageThread {
						a.renderThread(appended)
					}
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) renderThread(appended bool) {
	a.thread.Update(a.vm.Entries(), a.self.UserID, appended)
}

func (a *App) renderFlash() {
	a.flashBar.Update(a.flash.GetMessage())
}

func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case pageHome:
		a.app.SetFocus(a.homeView)
	case pageInbox:
		a.app.SetFocus(a.correspondents.Table())
	case pageThread:
		a.app.SetFocus(a.thread.Composer())
	case pageComplaints:
		a.app.SetFocus(a.complaints.Table())
	case pageTickets:
		a.app.SetFocus(a.tickets.Table())
	case pageNews:
		a.app.SetFocus(a.news.List())
	case pageStats:
		a.app.SetFocus(a.stats)
	case pageAuth:
		a.app.SetFocus(a.authView.Form())
	}
}
