package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/idlikadai3-prog/idli-kadai-frontend/api"
	"github.com/idlikadai3-prog/idli-kadai-frontend/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type menuFormState struct {
	Step      string // "name", "description", "price", "category", "available", "image"
	EditingID string // empty for a new item
	Input     api.MenuItemInput
}

type sellerFormState struct {
	Step     string // "username", "email", "password"
	Username string
	Email    string
}

func (b *Bot) getMenuForm(userID int64) *menuFormState {
	b.menuFormMu.Lock()
	defer b.menuFormMu.Unlock()
	return b.menuForms[userID]
}

func (b *Bot) getSellerForm(userID int64) *sellerFormState {
	b.sellerFormMu.Lock()
	defer b.sellerFormMu.Unlock()
	return b.sellerForms[userID]
}

// openSellerPanel renders the seller home and mounts the order poll. The poll
// stays active until the panel is closed, the user logs out, or a 401 forces
// a logout.
func (b *Bot) openSellerPanel(chatID int64, userID int64) {
	ctx := context.Background()
	sess, ok := b.requireSeller(ctx, chatID, userID)
	if !ok {
		return
	}
	orders, err := b.sessions.Client(userID).ListOrders(ctx)
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to load orders")
		return
	}

	pending := 0
	for _, o := range orders {
		if o.Status == services.OrderStatusPending {
			pending++
		}
	}
	text := fmt.Sprintf("🍽 idli kadai — Seller Panel\n\nWelcome, %s.\nOrders: %d (%d pending)",
		sess.Identity.Username, len(orders), pending)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽 Menu Management", "seller_menu"),
			tgbotapi.NewInlineKeyboardButtonData("📦 Orders", "seller_orders"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Seller", "seller_add"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh Orders", "seller_refresh"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Close Panel", "seller_close"),
		),
	)
	b.sendWithInline(chatID, text, kb)
	b.startOrderPoll(chatID, userID)
}

func (b *Bot) closeSellerPanel(chatID int64, userID int64) {
	b.stopOrderPoll(userID)
	b.orderMsgsMu.Lock()
	delete(b.orderMsgs, userID)
	b.orderMsgsMu.Unlock()
	b.send(chatID, "Seller panel closed. Use /start to come back.")
}

func (b *Bot) startOrderPoll(chatID int64, userID int64) {
	b.pollersMu.Lock()
	defer b.pollersMu.Unlock()
	if p, ok := b.pollers[userID]; ok && p.Running() {
		return
	}
	p := services.NewPoller(b.cfg.API.PollInterval, func(ctx context.Context) {
		b.refreshSellerOrders(ctx, chatID, userID, false)
	})
	b.pollers[userID] = p
	p.Start()
}

func (b *Bot) stopOrderPoll(userID int64) {
	b.pollersMu.Lock()
	p, ok := b.pollers[userID]
	if ok {
		delete(b.pollers, userID)
	}
	b.pollersMu.Unlock()
	if ok {
		p.Stop()
	}
}

// handleSellerRefresh is the manual refresh button; gated like every other
// seller action so a stale keyboard cannot drive the seller view.
func (b *Bot) handleSellerRefresh(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	b.refreshSellerOrders(ctx, chatID, userID, true)
}

func (b *Bot) openSellerOrders(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	b.refreshSellerOrders(ctx, chatID, userID, true)
	b.startOrderPoll(chatID, userID)
}

// refreshSellerOrders fetches the order list and upserts one card message per
// order: existing cards are edited in place, new orders get a new message.
// Concurrent refreshes (poll vs. manual) are last-write-wins. Errors from the
// background poll are only logged; announced refreshes notify the user.
func (b *Bot) refreshSellerOrders(ctx context.Context, chatID int64, userID int64, announce bool) {
	orders, err := b.sessions.Client(userID).ListOrders(ctx)
	if err != nil {
		if announce {
			b.apiFail(ctx, chatID, userID, err, "Failed to load orders")
		} else {
			log.Printf("order poll user=%d: %v", userID, err)
			if b.sessions.HandleAuthError(ctx, userID, err) {
				return
			}
		}
		return
	}
	if announce && len(orders) == 0 {
		b.send(chatID, "No orders yet. Orders will appear here when customers place them.")
		return
	}
	for _, o := range orders {
		b.upsertOrderCard(chatID, userID, o.ID, services.BuildSellerOrderCard(o))
	}
}

// upsertOrderCard edits the existing card message for the order or sends a
// new one and remembers its id. "not modified" is ignored; a deleted message
// is replaced.
func (b *Bot) upsertOrderCard(chatID int64, userID int64, orderID string, content services.OrderCardContent) {
	b.orderMsgsMu.Lock()
	msgs, ok := b.orderMsgs[userID]
	if !ok {
		msgs = make(map[string]int)
		b.orderMsgs[userID] = msgs
	}
	messageID := msgs[orderID]
	b.orderMsgsMu.Unlock()

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, content.Text)
		if kb := cardMarkup(content); kb != nil {
			edit.ReplyMarkup = kb
		} else {
			emptyKb := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
			edit.ReplyMarkup = &emptyKb
		}
		_, err := b.api.Send(edit)
		if err == nil {
			return
		}
		errStr := err.Error()
		if strings.Contains(errStr, "not modified") {
			return
		}
		if !strings.Contains(errStr, "not found") {
			log.Printf("edit order card order=%s: %v", orderID, err)
			return
		}
		// fall through: send a fresh card
	}

	msg := tgbotapi.NewMessage(chatID, content.Text)
	if kb := cardMarkup(content); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send order card order=%s: %v", orderID, err)
		return
	}
	b.orderMsgsMu.Lock()
	b.orderMsgs[userID][orderID] = sent.MessageID
	b.orderMsgsMu.Unlock()
}

func (b *Bot) handleStatusCallback(cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	userID := cq.From.ID
	parts := strings.SplitN(cq.Data, ":", 3)
	if len(parts) != 3 {
		return
	}
	orderID, newStatus := parts[1], parts[2]
	if !services.ValidOrderStatus(newStatus) {
		b.send(chatID, "Unknown order status.")
		return
	}
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	if err := b.sessions.Client(userID).UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to update order status")
		return
	}
	b.send(chatID, fmt.Sprintf("Order status updated to %s", newStatus))
	b.refreshSellerOrders(ctx, chatID, userID, false)
}

func (b *Bot) openSellerMenu(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	items, err := b.sessions.Client(userID).ListMenu(ctx)
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to load menu items")
		return
	}
	b.cacheMenu(userID, items)

	var text strings.Builder
	text.WriteString("🍽 Menu Management\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	if len(items) == 0 {
		text.WriteString("\nNo menu items. Add your first item!")
	}
	for _, it := range items {
		avail := "✅"
		if !it.Available {
			avail = "🚫"
		}
		fmt.Fprintf(&text, "\n%s %s — Rs. %.2f (%s)", avail, it.Name, it.Price, it.Category)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+it.Name, "mf_edit:"+it.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "mdel:"+it.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add New Item", "mf_new"),
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Panel", "seller"),
	))
	b.sendWithInline(chatID, text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// confirmMenuDelete asks before deleting; the destructive call only goes out
// after the explicit yes.
func (b *Bot) confirmMenuDelete(chatID int64, userID int64, itemID string) {
	name := itemID
	if it, ok := b.cachedMenuItem(userID, itemID); ok {
		name = it.Name
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, delete", "mdelyes:"+itemID),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "mdelno"),
		),
	)
	b.sendWithInline(chatID, fmt.Sprintf("Are you sure you want to delete %q?", name), kb)
}

func (b *Bot) handleMenuDelete(chatID int64, userID int64, itemID string) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	if err := b.sessions.Client(userID).DeleteMenuItem(ctx, itemID); err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to delete menu item")
		return
	}
	b.send(chatID, "Menu item deleted successfully!")
	b.openSellerMenu(chatID, userID)
}

func (b *Bot) startMenuForm(chatID int64, userID int64, editingID string) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	st := &menuFormState{Step: "name", EditingID: editingID}
	if editingID != "" {
		item, ok := b.cachedMenuItem(userID, editingID)
		if !ok {
			b.send(chatID, "That item is no longer on the menu.")
			b.openSellerMenu(chatID, userID)
			return
		}
		st.Input = api.MenuItemInput{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Category:    item.Category,
			Available:   item.Available,
			ImageURL:    item.ImageURL,
		}
	}
	b.clearConversations(userID)
	b.menuFormMu.Lock()
	b.menuForms[userID] = st
	b.menuFormMu.Unlock()

	if editingID != "" {
		b.send(chatID, fmt.Sprintf("Editing %q. Send a new name, or /keep to keep %q:", st.Input.Name, st.Input.Name))
	} else {
		b.send(chatID, fmt.Sprintf("New menu item — enter the name (min %d characters):", services.MinMenuNameLen))
	}
}

// handleMenuFormMessage walks the create/edit form one field per message.
// During an edit, /keep retains the current value of the field.
func (b *Bot) handleMenuFormMessage(chatID int64, userID int64, msg *tgbotapi.Message) {
	st := b.getMenuForm(userID)
	if st == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	keep := st.EditingID != "" && text == "/keep"

	switch st.Step {
	case "name":
		if !keep {
			if err := services.ValidateMenuName(text); err != nil {
				b.send(chatID, err.Error()+". Try again:")
				return
			}
			st.Input.Name = text
		}
		st.Step = "description"
		b.menuFormPrompt(chatID, st, fmt.Sprintf("Enter the description (min %d characters)", services.MinMenuDescLen), st.Input.Description)
	case "description":
		if !keep {
			if err := services.ValidateMenuDescription(text); err != nil {
				b.send(chatID, err.Error()+". Try again:")
				return
			}
			st.Input.Description = text
		}
		st.Step = "price"
		b.menuFormPrompt(chatID, st, "Enter the price (Rs.)", fmt.Sprintf("%.2f", st.Input.Price))
	case "price":
		if !keep {
			p, err := services.ParseMenuPrice(text)
			if err != nil {
				b.send(chatID, err.Error()+". Try again:")
				return
			}
			st.Input.Price = p
		}
		st.Step = "category"
		b.menuFormPrompt(chatID, st, fmt.Sprintf("Enter the category (min %d characters, e.g. Idli, Rice, Beverages)", services.MinMenuCategoryLen), st.Input.Category)
	case "category":
		if !keep {
			if err := services.ValidateMenuCategory(text); err != nil {
				b.send(chatID, err.Error()+". Try again:")
				return
			}
			st.Input.Category = text
		}
		st.Step = "available"
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Available", "mf_avail:yes"),
				tgbotapi.NewInlineKeyboardButtonData("🚫 Unavailable", "mf_avail:no"),
			),
		)
		b.sendWithInline(chatID, "Is the item available?", kb)
	case "available":
		b.send(chatID, "Tap one of the availability buttons above.")
	case "image":
		b.handleMenuFormImage(chatID, userID, st, msg, text, keep)
	}
}

func (b *Bot) menuFormPrompt(chatID int64, st *menuFormState, prompt, current string) {
	if st.EditingID != "" {
		b.send(chatID, fmt.Sprintf("%s, or /keep to keep %q:", prompt, current))
		return
	}
	b.send(chatID, prompt+":")
}

func (b *Bot) handleMenuFormAvailable(chatID int64, userID int64, available bool) {
	st := b.getMenuForm(userID)
	if st == nil || st.Step != "available" {
		return
	}
	st.Input.Available = available
	st.Step = "image"
	if st.EditingID != "" {
		b.send(chatID, "Send a photo, paste an image URL, /keep to keep the current image, or /skip:")
		return
	}
	b.send(chatID, "Send a photo, paste an image URL, or /skip:")
}

func (b *Bot) handleMenuFormImage(chatID int64, userID int64, st *menuFormState, msg *tgbotapi.Message, text string, keep bool) {
	ctx := context.Background()
	switch {
	case len(msg.Photo) > 0:
		// Largest size is last; re-uploaded to the API as a multipart part.
		photo := msg.Photo[len(msg.Photo)-1]
		url, err := b.api.GetFileDirectURL(photo.FileID)
		if err != nil {
			b.send(chatID, "Could not read that photo. Try again or /skip:")
			return
		}
		resp, err := http.Get(url)
		if err != nil {
			b.send(chatID, "Could not download that photo. Try again or /skip:")
			return
		}
		defer resp.Body.Close()
		st.Input.Image = resp.Body
		st.Input.ImageFilename = path.Base(url)
		b.submitMenuForm(ctx, chatID, userID, st)
	case keep:
		b.submitMenuForm(ctx, chatID, userID, st)
	case text == "/skip":
		st.Input.ImageURL = ""
		b.submitMenuForm(ctx, chatID, userID, st)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		st.Input.ImageURL = text
		b.submitMenuForm(ctx, chatID, userID, st)
	default:
		b.send(chatID, "Send a photo, paste an image URL, or /skip:")
	}
}

func (b *Bot) submitMenuForm(ctx context.Context, chatID int64, userID int64, st *menuFormState) {
	b.menuFormMu.Lock()
	delete(b.menuForms, userID)
	b.menuFormMu.Unlock()

	client := b.sessions.Client(userID)
	var err error
	if st.EditingID != "" {
		err = client.UpdateMenuItem(ctx, st.EditingID, st.Input)
	} else {
		err = client.CreateMenuItem(ctx, st.Input)
	}
	if err != nil {
		b.apiFail(ctx, chatID, userID, err, "Failed to save menu item")
		return
	}
	if st.EditingID != "" {
		b.send(chatID, "Menu item updated successfully!")
	} else {
		b.send(chatID, "Menu item added successfully!")
	}
	b.openSellerMenu(chatID, userID)
}

func (b *Bot) startSellerForm(chatID int64, userID int64) {
	ctx := context.Background()
	if _, ok := b.requireSeller(ctx, chatID, userID); !ok {
		return
	}
	b.clearConversations(userID)
	b.sellerFormMu.Lock()
	b.sellerForms[userID] = &sellerFormState{Step: "username"}
	b.sellerFormMu.Unlock()
	b.send(chatID, fmt.Sprintf("New seller — enter a username (min %d characters):", services.MinUsernameLen))
}

func (b *Bot) handleSellerFormText(chatID int64, userID int64, text string) {
	st := b.getSellerForm(userID)
	if st == nil {
		return
	}
	switch st.Step {
	case "username":
		if utf8.RuneCountInString(text) < services.MinUsernameLen {
			b.send(chatID, fmt.Sprintf("Username must be at least %d characters. Try again:", services.MinUsernameLen))
			return
		}
		st.Username = text
		st.Step = "email"
		b.send(chatID, "Enter the seller's email:")
	case "email":
		if !services.ValidEmail(text) {
			b.send(chatID, "Please enter a valid email:")
			return
		}
		st.Email = strings.ToLower(text)
		st.Step = "password"
		b.send(chatID, fmt.Sprintf("Enter a temporary password (min %d characters):", services.MinPasswordLen))
	case "password":
		if problems := services.ValidateAccountForm(st.Username, st.Email, text); len(problems) > 0 {
			b.send(chatID, strings.Join(problems, "; ")+". Try again:")
			return
		}
		ctx := context.Background()
		err := b.sessions.Client(userID).CreateSeller(ctx, st.Username, st.Email, text)
		b.sellerFormMu.Lock()
		delete(b.sellerForms, userID)
		b.sellerFormMu.Unlock()
		if err != nil {
			b.apiFail(ctx, chatID, userID, err, "Failed to create seller")
			return
		}
		b.send(chatID, "New seller created successfully!")
	}
}
