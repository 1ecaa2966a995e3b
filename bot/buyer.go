package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
	"github.com/idlikadai3-prog/idli-kadai-frontend/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type checkoutState struct {
	Step string // "name", "phone", "description", "confirm"
	Info services.CheckoutInfo
}

func (b *Bot) getCheckoutState(userID int64) *checkoutState {
	b.checkoutMu.Lock()
	defer b.checkoutMu.Unlock()
	return b.checkoutStates[userID]
}

// openBuyerDashboard fetches the menu and renders the combined menu+cart view.
// A fresh render replaces the tracked dashboard message, so cart taps keep
// editing the latest one.
func (b *Bot) openBuyerDashboard(chatID int64, userID int64) {
	ctx := context.Background()
	sess, ok := b.requireAuth(ctx, chatID, userID)
	if !ok {
		return
	}
	b.stopOrderPoll(userID)

	items, err := b.sessions.Client(userID).ListMenu(ctx)
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to load menu items")
		return
	}
	menu := models.AvailableOnly(items)
	b.cacheMenu(userID, menu)

	text, kb := b.buyerDashboardContent(sess, menu, b.cart(userID))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send dashboard: %v", err)
		return
	}
	b.dashboardMsgMu.Lock()
	b.dashboardMsg[userID] = sent.MessageID
	b.dashboardMsgMu.Unlock()
}

// refreshBuyerDashboard edits the rendered dashboard in place after a cart
// change; when the message is gone it falls back to a full re-render.
func (b *Bot) refreshBuyerDashboard(chatID int64, userID int64) {
	sess := b.sessions.Get(userID)
	b.menuCacheMu.RLock()
	menu := b.menuCache[userID]
	b.menuCacheMu.RUnlock()

	b.dashboardMsgMu.Lock()
	messageID := b.dashboardMsg[userID]
	b.dashboardMsgMu.Unlock()
	if messageID == 0 {
		b.openBuyerDashboard(chatID, userID)
		return
	}

	text, kb := b.buyerDashboardContent(sess, menu, b.cart(userID))
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = &kb
	if _, err := b.api.Send(edit); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not modified") {
			return
		}
		if strings.Contains(errStr, "not found") {
			b.openBuyerDashboard(chatID, userID)
			return
		}
		log.Printf("edit dashboard: %v", err)
	}
}

func (b *Bot) buyerDashboardContent(sess services.Session, menu []models.MenuItem, cart *services.Cart) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	fmt.Fprintf(&text, "🍽 idli kadai — welcome, %s!\n", sess.Identity.Username)
	if len(menu) == 0 {
		text.WriteString("\nNo menu items available.")
	} else {
		text.WriteString("\nTap an item to add it to your cart.")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range menu {
		label := fmt.Sprintf("%s — Rs. %.2f", item.Name, item.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "add:"+item.ID),
		))
	}

	lines := cart.Lines()
	if len(lines) > 0 {
		fmt.Fprintf(&text, "\n\n🛒 Cart (%d):\n", len(lines))
		for _, l := range lines {
			fmt.Fprintf(&text, "• %s × %d — Rs. %.2f\n", l.Name, l.Quantity, l.LineTotal())
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➖", "dec:"+l.MenuItemID),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s × %d", l.Name, l.Quantity), "line:"+l.MenuItemID),
				tgbotapi.NewInlineKeyboardButtonData("➕", "inc:"+l.MenuItemID),
			))
		}
		fmt.Fprintf(&text, "\nTotal: Rs. %.2f", cart.Total())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Checkout (Rs. %.2f)", cart.Total()), "checkout"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📦 My Orders", "orders"),
		tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "menu"),
	))
	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCartAdd(chatID int64, userID int64, menuItemID string) {
	ctx := context.Background()
	if _, ok := b.requireAuth(ctx, chatID, userID); !ok {
		return
	}
	item, ok := b.cachedMenuItem(userID, menuItemID)
	if !ok {
		b.send(chatID, "That item is no longer on the menu.")
		b.openBuyerDashboard(chatID, userID)
		return
	}
	b.cart(userID).Add(item)
	b.refreshBuyerDashboard(chatID, userID)
}

func (b *Bot) handleCartAdjust(chatID int64, userID int64, menuItemID string, delta int) {
	ctx := context.Background()
	if _, ok := b.requireAuth(ctx, chatID, userID); !ok {
		return
	}
	b.cart(userID).Adjust(menuItemID, delta)
	b.refreshBuyerDashboard(chatID, userID)
}

func (b *Bot) openBuyerOrders(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireAuth(ctx, chatID, userID); !ok {
		return
	}
	orders, err := b.sessions.Client(userID).ListOrders(ctx)
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to load orders")
		return
	}
	if len(orders) == 0 {
		b.send(chatID, "No orders yet. Start ordering from the menu!")
		return
	}
	for _, o := range orders {
		b.send(chatID, services.BuildBuyerOrderCard(o).Text)
	}
}

func (b *Bot) startCheckout(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireAuth(ctx, chatID, userID); !ok {
		return
	}
	if b.cart(userID).IsEmpty() {
		b.send(chatID, "Your cart is empty")
		return
	}
	b.clearConversations(userID)
	b.checkoutMu.Lock()
	b.checkoutStates[userID] = &checkoutState{Step: "name"}
	b.checkoutMu.Unlock()
	b.send(chatID, fmt.Sprintf("Checkout — enter your name (min %d characters):", services.MinCustomerNameLen))
}

func (b *Bot) handleCheckoutText(chatID int64, userID int64, text string) {
	st := b.getCheckoutState(userID)
	if st == nil {
		return
	}
	switch st.Step {
	case "name":
		if utf8.RuneCountInString(text) < services.MinCustomerNameLen {
			b.send(chatID, fmt.Sprintf("Name must be at least %d characters. Try again:", services.MinCustomerNameLen))
			return
		}
		st.Info.Name = text
		st.Step = "phone"
		b.send(chatID, fmt.Sprintf("Enter your phone number (min %d characters):", services.MinCustomerPhoneLen))
	case "phone":
		if utf8.RuneCountInString(text) < services.MinCustomerPhoneLen {
			b.send(chatID, fmt.Sprintf("Phone must be at least %d characters. Try again:", services.MinCustomerPhoneLen))
			return
		}
		st.Info.Phone = text
		st.Step = "description"
		b.send(chatID, fmt.Sprintf("Describe your order and delivery details — address, instructions, pickup or delivery (min %d characters):", services.MinDescriptionLen))
	case "description":
		if utf8.RuneCountInString(text) < services.MinDescriptionLen {
			b.send(chatID, fmt.Sprintf("Order description must be at least %d characters. Try again:", services.MinDescriptionLen))
			return
		}
		st.Info.Description = text
		st.Step = "confirm"
		b.sendCheckoutSummary(chatID, userID, st)
	case "confirm":
		b.sendCheckoutSummary(chatID, userID, st)
	}
}

func (b *Bot) sendCheckoutSummary(chatID int64, userID int64, st *checkoutState) {
	cart := b.cart(userID)
	var text strings.Builder
	text.WriteString("Confirm your order:\n\n")
	for _, l := range cart.Lines() {
		fmt.Fprintf(&text, "• %s × %d — Rs. %.2f\n", l.Name, l.Quantity, l.LineTotal())
	}
	fmt.Fprintf(&text, "\nTotal: Rs. %.2f\n", cart.Total())
	fmt.Fprintf(&text, "\nName: %s\nPhone: %s\nDescription: %s", st.Info.Name, st.Info.Phone, st.Info.Description)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Place Order", "co_place"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "co_cancel"),
		),
	)
	b.sendWithInline(chatID, text.String(), kb)
}

// handleCheckoutPlace submits the order. Validation runs before the network
// call; on failure the cart is left untouched so the user can retry.
func (b *Bot) handleCheckoutPlace(chatID int64, userID int64) {
	st := b.getCheckoutState(userID)
	if st == nil || st.Step != "confirm" {
		return
	}
	ctx := context.Background()
	if _, ok := b.requireAuth(ctx, chatID, userID); !ok {
		return
	}
	cart := b.cart(userID)
	input, err := services.BuildOrder(cart, st.Info)
	if err != nil {
		b.send(chatID, err.Error())
		return
	}
	order, err := b.sessions.Client(userID).CreateOrder(ctx, input)
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to place order")
		return
	}
	cart.Clear()
	b.checkoutMu.Lock()
	delete(b.checkoutStates, userID)
	b.checkoutMu.Unlock()
	b.send(chatID, fmt.Sprintf("Order #%s placed successfully!", services.ShortOrderID(order.ID)))
	b.openBuyerOrders(chatID, userID)
}

func (b *Bot) cancelCheckout(chatID int64, userID int64) {
	b.checkoutMu.Lock()
	delete(b.checkoutStates, userID)
	b.checkoutMu.Unlock()
	b.send(chatID, "Checkout cancelled.")
}
