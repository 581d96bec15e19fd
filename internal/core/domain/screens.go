package domain

// Screen identifies one page of the application.
type Screen string

const (
	ScreenLogin            Screen = "login"
	ScreenRegister         Screen = "register"
	ScreenTodaysExpenses   Screen = "todays_expenses"
	ScreenPreviousExpenses Screen = "previous_expenses"
)

// NavContext is the navigation menu shown for one session state: a title
// plus the screens reachable from it.
type NavContext struct {
	Title   string
	Screens []Screen
}

var (
	accountNav = NavContext{
		Title:   "Account",
		Screens: []Screen{ScreenLogin, ScreenRegister},
	}
	expensesNav = NavContext{
		Title:   "Daily Kharcha",
		Screens: []Screen{ScreenTodaysExpenses, ScreenPreviousExpenses},
	}
)

// NavFor returns the navigation context for the given session. The screen
// set is a pure function of session state: anonymous sessions see the
// account screens, authenticated sessions see the expense screens.
func NavFor(s Session) NavContext {
	if s.Authenticated() {
		return expensesNav
	}
	return accountNav
}

// Allows reports whether the session may open the given screen.
func (n NavContext) Allows(screen Screen) bool {
	for _, s := range n.Screens {
		if s == screen {
			return true
		}
	}
	return false
}

// Title is the human-readable menu label for the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenRegister:
		return "Register"
	case ScreenTodaysExpenses:
		return "Today's Expenses"
	case ScreenPreviousExpenses:
		return "Previous Expenses"
	}
	return string(s)
}

// Path is the route serving the screen.
func (s Screen) Path() string {
	switch s {
	case ScreenLogin:
		return "/login"
	case ScreenRegister:
		return "/register"
	case ScreenTodaysExpenses:
		return "/expenses/today"
	case ScreenPreviousExpenses:
		return "/expenses/previous"
	}
	return "/"
}
