package views

import (
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// AuthView is the login/register screen. It swaps between the two forms in
// place; the active form is whatever Primitive() currently returns.
type AuthView struct {
	*tview.Flex
	theme    *ui.Theme
	login    *tview.Form
	register *tview.Form
	message  *tview.TextView

	onLogin    func(email, password string)
	onRegister func(name, email, phone, password string)
}

// NewAuthView creates the authentication screen.
func NewAuthView(theme *ui.Theme) *AuthView {
	av := &AuthView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
	}

	av.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	av.message.SetBackgroundColor(theme.BgColor)

	av.buildLogin()
	av.buildRegister()
	av.ShowLogin()
	return av
}

// Name implements ui.Component.
func (av *AuthView) Name() string { return "sign in" }

// Hints implements ui.Component.
func (av *AuthView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "next field"},
		{Key: "Enter", Description: "submit"},
	}
}

// SetOnLogin sets the login submit callback.
func (av *AuthView) SetOnLogin(fn func(email, password string)) {
	av.onLogin = fn
}

// SetOnRegister sets the register submit callback.
func (av *AuthView) SetOnRegister(fn func(name, email, phone, password string)) {
	av.onRegister = fn
}

// ShowLogin switches to the login form.
func (av *AuthView) ShowLogin() {
	av.Clear()
	av.AddItem(av.message, 1, 0, false).
		AddItem(av.login, 0, 1, true)
}

// ShowRegister switches to the registration form.
func (av *AuthView) ShowRegister() {
	av.Clear()
	av.AddItem(av.message, 1, 0, false).
		AddItem(av.register, 0, 1, true)
}

// ShowMessage displays a status line above the form.
func (av *AuthView) ShowMessage(msg string) {
	av.message.Clear()
	_, _ = av.message.Write([]byte(msg))
}

// Form returns the currently visible form, for focus handling.
func (av *AuthView) Form() *tview.Form {
	if av.GetItemCount() > 1 && av.GetItem(1) == av.register {
		return av.register
	}
	return av.login
}

func (av *AuthView) buildLogin() {
	f := tview.NewForm()
	f.AddInputField("Email", "", 40, nil, nil)
	f.AddPasswordField("Password", "", 40, '*', nil)
	f.AddButton("Sign in", func() {
		email := f.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := f.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		if av.onLogin != nil {
			av.onLogin(email, password)
		}
	})
	f.AddButton("Create account", func() {
		av.ShowRegister()
	})
	f.SetBorder(true).SetTitle(" JustiFy | Sign in ")
	f.SetTitleColor(av.theme.TitleColor)
	f.SetBorderColor(av.theme.BorderColor)
	f.SetBackgroundColor(av.theme.BgColor)
	av.login = f
}

func (av *AuthView) buildRegister() {
	f := tview.NewForm()
	f.AddInputField("Name", "", 40, nil, nil)
	f.AddInputField("Email", "", 40, nil, nil)
	f.AddInputField("Phone", "", 40, nil, nil)
	f.AddPasswordField("Password", "", 40, '*', nil)
	f.AddButton("Register", func() {
		name := f.GetFormItemByLabel("Name").(*tview.InputField).GetText()
		email := f.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		phone := f.GetFormItemByLabel("Phone").(*tview.InputField).GetText()
		password := f.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		if av.onRegister != nil {
			av.onRegister(name, email, phone, password)
		}
	})
	f.AddButton("Back", func() {
		av.ShowLogin()
	})
	f.SetBorder(true).SetTitle(" JustiFy | Create account ")
	f.SetTitleColor(av.theme.TitleColor)
	f.SetBorderColor(av.theme.BorderColor)
	f.SetBackgroundColor(av.theme.BgColor)
	av.register = f
}
