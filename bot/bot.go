package bot

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/idlikadai3-prog/idli-kadai-frontend/api"
	"github.com/idlikadai3-prog/idli-kadai-frontend/config"
	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
	"github.com/idlikadai3-prog/idli-kadai-frontend/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the Telegram front of the idli kadai ordering client. Every view
// talks to the remote API through the session manager's token-bound client;
// the only state owned here is per-chat view state (carts, open conversations,
// rendered message ids, seller order pollers).
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	sessions *services.SessionManager

	carts   map[int64]*services.Cart
	cartsMu sync.Mutex

	// Menu items as of the last view render; add-to-cart resolves against this
	// read-only copy.
	menuCache   map[int64][]models.MenuItem
	menuCacheMu sync.RWMutex

	dashboardMsg   map[int64]int
	dashboardMsgMu sync.Mutex

	// Seller panel: one rendered card message per order, edited in place when
	// the poll or a status change brings fresh data.
	orderMsgs   map[int64]map[string]int
	orderMsgsMu sync.Mutex

	pollers   map[int64]*services.Poller
	pollersMu sync.Mutex

	loginStates    map[int64]*loginState
	loginMu        sync.Mutex
	registerStates map[int64]*registerState
	registerMu     sync.Mutex
	checkoutStates map[int64]*checkoutState
	checkoutMu     sync.Mutex
	menuForms      map[int64]*menuFormState
	menuFormMu     sync.Mutex
	sellerForms    map[int64]*sellerFormState
	sellerFormMu   sync.Mutex
}

func New(cfg *config.Config, sessions *services.SessionManager) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return newBot(tg, cfg, sessions), nil
}

func newBot(tg *tgbotapi.BotAPI, cfg *config.Config, sessions *services.SessionManager) *Bot {
	b := &Bot{
		api:            tg,
		cfg:            cfg,
		sessions:       sessions,
		carts:          make(map[int64]*services.Cart),
		menuCache:      make(map[int64][]models.MenuItem),
		dashboardMsg:   make(map[int64]int),
		orderMsgs:      make(map[int64]map[string]int),
		pollers:        make(map[int64]*services.Poller),
		loginStates:    make(map[int64]*loginState),
		registerStates: make(map[int64]*registerState),
		checkoutStates: make(map[int64]*checkoutState),
		menuForms:      make(map[int64]*menuFormState),
		sellerForms:    make(map[int64]*sellerFormState),
	}
	// Private chats: the chat id is the user id, so forced logout can reach
	// the user without a separate pointer.
	sessions.SetOnForcedLogout(b.onForcedLogout)
	return b
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Home"},
			{Command: "menu", Description: "Browse the menu"},
			{Command: "orders", Description: "My orders"},
			{Command: "seller", Description: "Seller panel"},
			{Command: "login", Description: "Log in"},
			{Command: "register", Description: "Create an account"},
			{Command: "logout", Description: "Log out"},
			{Command: "cancel", Description: "Cancel the current step"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	_ = b.setBotCommands()
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID
		userID := msg.From.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case text == "/start":
			b.handleHome(chatID, userID)
		case text == "/login":
			b.startLogin(chatID, userID)
		case text == "/register":
			b.startRegister(chatID, userID)
		case text == "/logout":
			b.handleLogout(chatID, userID)
		case text == "/menu":
			b.openBuyerDashboard(chatID, userID)
		case text == "/orders":
			b.openBuyerOrders(chatID, userID)
		case text == "/seller":
			b.openSellerPanel(chatID, userID)
		case text == "/cancel":
			b.clearConversations(userID)
			b.send(chatID, "Cancelled.")
		default:
			b.routeConversation(msg)
		}
	}
}

// routeConversation feeds a non-command message into whichever form the user
// has open. At most one conversation is active per user.
func (b *Bot) routeConversation(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if b.getLoginState(userID) != nil {
		b.handleLoginText(chatID, userID, strings.TrimSpace(msg.Text))
		return
	}
	if b.getRegisterState(userID) != nil {
		b.handleRegisterText(chatID, userID, strings.TrimSpace(msg.Text))
		return
	}
	if b.getCheckoutState(userID) != nil {
		b.handleCheckoutText(chatID, userID, strings.TrimSpace(msg.Text))
		return
	}
	if b.getMenuForm(userID) != nil {
		b.handleMenuFormMessage(chatID, userID, msg)
		return
	}
	if b.getSellerForm(userID) != nil {
		b.handleSellerFormText(chatID, userID, strings.TrimSpace(msg.Text))
		return
	}
	b.send(chatID, "Use /start to begin.")
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	userID := cq.From.ID
	data := cq.Data

	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))

	switch {
	case data == "go_login":
		b.startLogin(chatID, userID)
	case data == "go_register":
		b.startRegister(chatID, userID)
	case data == "menu":
		b.openBuyerDashboard(chatID, userID)
	case data == "orders":
		b.openBuyerOrders(chatID, userID)
	case strings.HasPrefix(data, "add:"):
		b.handleCartAdd(chatID, userID, strings.TrimPrefix(data, "add:"))
	case strings.HasPrefix(data, "inc:"):
		b.handleCartAdjust(chatID, userID, strings.TrimPrefix(data, "inc:"), +1)
	case strings.HasPrefix(data, "dec:"):
		b.handleCartAdjust(chatID, userID, strings.TrimPrefix(data, "dec:"), -1)
	case strings.HasPrefix(data, "line:"):
		// informational button; the callback is already answered
	case data == "checkout":
		b.startCheckout(chatID, userID)
	case data == "co_place":
		b.handleCheckoutPlace(chatID, userID)
	case data == "co_cancel":
		b.cancelCheckout(chatID, userID)
	case data == "seller":
		b.openSellerPanel(chatID, userID)
	case data == "seller_menu":
		b.openSellerMenu(chatID, userID)
	case data == "seller_orders":
		b.openSellerOrders(chatID, userID)
	case data == "seller_refresh":
		b.handleSellerRefresh(chatID, userID)
	case data == "seller_close":
		b.closeSellerPanel(chatID, userID)
	case data == "seller_add":
		b.startSellerForm(chatID, userID)
	case strings.HasPrefix(data, "status:"):
		b.handleStatusCallback(cq)
	case data == "mf_new":
		b.startMenuForm(chatID, userID, "")
	case strings.HasPrefix(data, "mf_edit:"):
		b.startMenuForm(chatID, userID, strings.TrimPrefix(data, "mf_edit:"))
	case data == "mf_avail:yes", data == "mf_avail:no":
		b.handleMenuFormAvailable(chatID, userID, data == "mf_avail:yes")
	case strings.HasPrefix(data, "mdel:"):
		b.confirmMenuDelete(chatID, userID, strings.TrimPrefix(data, "mdel:"))
	case strings.HasPrefix(data, "mdelyes:"):
		b.handleMenuDelete(chatID, userID, strings.TrimPrefix(data, "mdelyes:"))
	case data == "mdelno":
		b.send(chatID, "Delete cancelled.")
	}
}

// handleHome routes the user to the view matching their session: seller panel,
// buyer dashboard, or the login entry point.
func (b *Bot) handleHome(chatID int64, userID int64) {
	ctx := context.Background()
	sess, ok := b.resumedSession(ctx, chatID, userID)
	if !ok {
		return
	}
	switch {
	case sess.IsSeller():
		b.openSellerPanel(chatID, userID)
	case sess.IsAuthenticated():
		b.openBuyerDashboard(chatID, userID)
	default:
		b.sendWelcome(chatID)
	}
}

func (b *Bot) sendWelcome(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔑 Login", "go_login"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Register", "go_register"),
		),
	)
	b.sendWithInline(chatID, "🍽 Welcome to idli kadai!\n\nLog in to order, or create an account.", kb)
}

// resumedSession restores the session from the persisted token on first
// contact. While another update holds the session in Loading, a neutral
// placeholder is rendered instead of gated content.
func (b *Bot) resumedSession(ctx context.Context, chatID int64, userID int64) (services.Session, bool) {
	sess := b.sessions.Get(userID)
	if sess.State == services.StateLoading {
		b.send(chatID, "One moment...")
		return sess, false
	}
	if sess.State == services.StateUnauthenticated {
		if err := b.sessions.Resume(ctx, userID); err != nil && !api.IsUnauthorized(err) {
			log.Printf("session resume user=%d: %v", userID, err)
		}
		sess = b.sessions.Get(userID)
	}
	return sess, true
}

// requireAuth gates buyer views: unauthenticated users are sent to the login
// entry point.
func (b *Bot) requireAuth(ctx context.Context, chatID int64, userID int64) (services.Session, bool) {
	sess, ok := b.resumedSession(ctx, chatID, userID)
	if !ok {
		return sess, false
	}
	if !sess.IsAuthenticated() {
		b.sendWelcome(chatID)
		return sess, false
	}
	return sess, true
}

// requireSeller gates the seller panel: authenticated non-sellers are
// redirected to the buyer dashboard.
func (b *Bot) requireSeller(ctx context.Context, chatID int64, userID int64) (services.Session, bool) {
	sess, ok := b.requireAuth(ctx, chatID, userID)
	if !ok {
		return sess, false
	}
	if !sess.IsSeller() {
		b.send(chatID, "You do not have permission to access the seller panel.")
		b.openBuyerDashboard(chatID, userID)
		return sess, false
	}
	return sess, true
}

// notifyAPIError applies the global error policy: 401 forces logout (the
// session manager's callback handles navigation), 403/404/5xx and network
// failures get a notification here. Validation errors return false so the
// call site can render its own message.
func (b *Bot) notifyAPIError(ctx context.Context, chatID int64, userID int64, err error) bool {
	if b.sessions.HandleAuthError(ctx, userID, err) {
		return true
	}
	switch {
	case api.IsForbidden(err):
		b.send(chatID, api.Message(err, "You do not have permission to perform this action."))
	case api.IsNotFound(err):
		b.send(chatID, api.Message(err, "Resource not found."))
	case api.IsServerError(err):
		b.send(chatID, api.Message(err, "Server error. Please try again later."))
	case api.IsNetwork(err):
		b.send(chatID, "Network error. Please check your connection.")
	default:
		return false
	}
	return true
}

// apiFail is notifyAPIError plus a fallback-flavored message for validation
// errors, for call sites with nothing more specific to say.
func (b *Bot) apiFail(ctx context.Context, chatID int64, userID int64, err error, fallback string) {
	log.Printf("api error user=%d: %v", userID, err)
	if !b.notifyAPIError(ctx, chatID, userID, err) {
		b.send(chatID, api.Message(err, fallback))
	}
}

func (b *Bot) onForcedLogout(userID int64) {
	b.stopOrderPoll(userID)
	b.clearConversations(userID)
	b.clearCart(userID)
	b.send(userID, "Session expired. Please login again.")
	b.sendWelcome(userID)
}

func (b *Bot) handleLogout(chatID int64, userID int64) {
	ctx := context.Background()
	b.sessions.Logout(ctx, userID)
	b.stopOrderPoll(userID)
	b.clearConversations(userID)
	b.clearCart(userID)
	b.send(chatID, "Logged out.")
	b.sendWelcome(chatID)
}

func (b *Bot) clearConversations(userID int64) {
	b.loginMu.Lock()
	delete(b.loginStates, userID)
	b.loginMu.Unlock()
	b.registerMu.Lock()
	delete(b.registerStates, userID)
	b.registerMu.Unlock()
	b.checkoutMu.Lock()
	delete(b.checkoutStates, userID)
	b.checkoutMu.Unlock()
	b.menuFormMu.Lock()
	delete(b.menuForms, userID)
	b.menuFormMu.Unlock()
	b.sellerFormMu.Lock()
	delete(b.sellerForms, userID)
	b.sellerFormMu.Unlock()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) cart(userID int64) *services.Cart {
	b.cartsMu.Lock()
	defer b.cartsMu.Unlock()
	c, ok := b.carts[userID]
	if !ok {
		c = services.NewCart()
		b.carts[userID] = c
	}
	return c
}

func (b *Bot) clearCart(userID int64) {
	b.cartsMu.Lock()
	delete(b.carts, userID)
	b.cartsMu.Unlock()
}

func (b *Bot) cacheMenu(userID int64, items []models.MenuItem) {
	b.menuCacheMu.Lock()
	b.menuCache[userID] = items
	b.menuCacheMu.Unlock()
}

func (b *Bot) cachedMenuItem(userID int64, id string) (models.MenuItem, bool) {
	b.menuCacheMu.RLock()
	defer b.menuCacheMu.RUnlock()
	for _, it := range b.menuCache[userID] {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// cardMarkup converts OrderCardContent buttons to a Telegram inline keyboard.
func cardMarkup(c services.OrderCardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
