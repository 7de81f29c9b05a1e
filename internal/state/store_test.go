package state_test

import (
	"encoding/json"
	"testing"

	"artesanal/internal/domain"
	"artesanal/internal/state"
)

func chocolate() domain.Product {
	return domain.Product{ID: 1, Name: "Barra de chocolate 70%", Price: 18000, Image: "/images/barra-70.jpg"}
}

func basket() domain.Product {
	return domain.Product{ID: 2, Name: "Canasta en werregue", Price: 95000, Image: "/images/canasta.jpg"}
}

func TestAddToCart_MergesSameProduct(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 2)
	s.AddToCart(chocolate(), 3)

	items := s.CartItems()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
	if s.CartCount() != 5 {
		t.Fatalf("expected count 5, got %d", s.CartCount())
	}
	if got, want := s.CartTotal(), 5*18000.0; got != want {
		t.Fatalf("expected total %v, got %v", want, got)
	}
}

func TestAddToCart_IgnoresNonPositiveQuantity(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 0)
	s.AddToCart(chocolate(), -2)
	if len(s.CartItems()) != 0 {
		t.Fatal("expected empty cart")
	}
}

func TestCartTotals_RecomputedAfterEveryMutation(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 2)
	s.AddToCart(basket(), 1)

	if s.CartCount() != 3 {
		t.Fatalf("expected count 3, got %d", s.CartCount())
	}
	if got, want := s.CartTotal(), 2*18000.0+95000.0; got != want {
		t.Fatalf("expected total %v, got %v", want, got)
	}

	s.UpdateCartQuantity(1, 1)
	if got, want := s.CartTotal(), 18000.0+95000.0; got != want {
		t.Fatalf("expected total %v after update, got %v", want, got)
	}

	s.RemoveFromCart(2)
	if s.CartCount() != 1 {
		t.Fatalf("expected count 1 after remove, got %d", s.CartCount())
	}
	if got := s.CartTotal(); got != 18000.0 {
		t.Fatalf("expected total 18000 after remove, got %v", got)
	}
}

func TestUpdateCartQuantity_NoOpCases(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 2)

	s.UpdateCartQuantity(1, 0)
	s.UpdateCartQuantity(1, -3)
	s.UpdateCartQuantity(99, 4)

	items := s.CartItems()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected unchanged cart, got %+v", items)
	}
}

func TestCompleteOrder_ClearsCart(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 2)
	s.CompleteOrder()
	if len(s.CartItems()) != 0 || s.CartCount() != 0 || s.CartTotal() != 0 {
		t.Fatal("expected empty cart after completed order")
	}
}

func TestAddToWishlist_Idempotent(t *testing.T) {
	s := state.New()
	s.AddToWishlist(chocolate())
	s.AddToWishlist(chocolate())

	if got := len(s.WishlistItems()); got != 1 {
		t.Fatalf("expected one wishlist entry, got %d", got)
	}
	if !s.IsInWishlist(1) {
		t.Fatal("expected product 1 in wishlist")
	}
	s.RemoveFromWishlist(1)
	if s.IsInWishlist(1) {
		t.Fatal("expected product 1 removed")
	}
}

func TestLogout_PreservesCartAndWishlist(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 1)
	s.AddToWishlist(basket())
	s.Login(domain.User{ID: 7, Email: "ana@example.com"}, "tok")

	s.Logout()

	if s.Session().LoggedIn() {
		t.Fatal("expected logged out session")
	}
	if len(s.CartItems()) != 1 || len(s.WishlistItems()) != 1 {
		t.Fatal("expected cart and wishlist to survive logout")
	}
}

func TestClearUserData_ResetsEverything(t *testing.T) {
	s := state.New()
	s.AddToCart(chocolate(), 1)
	s.AddToWishlist(basket())
	s.Login(domain.User{ID: 7, Email: "ana@example.com"}, "tok")
	s.UpdateFilters(domain.FilterPatch{Category: strPtr("Chocolate")})

	s.ClearUserData()

	if s.Session().LoggedIn() {
		t.Fatal("expected logged out session")
	}
	if len(s.CartItems()) != 0 || len(s.WishlistItems()) != 0 {
		t.Fatal("expected cart and wishlist cleared")
	}
	if s.Filters() != domain.DefaultFilters() {
		t.Fatalf("expected default filters, got %+v", s.Filters())
	}
}

func TestUpdateUser_NoOpWhenLoggedOut(t *testing.T) {
	s := state.New()
	s.UpdateUser(domain.UserPatch{Name: strPtr("Ana")})
	if s.Session().LoggedIn() {
		t.Fatal("expected session to stay logged out")
	}
}

func TestUpdateUser_MergesIntoSession(t *testing.T) {
	s := state.New()
	s.Login(domain.User{ID: 7, Email: "ana@example.com", Name: "Ana"}, "tok")
	s.UpdateUser(domain.UserPatch{Phone: strPtr("3001234567")})

	u, ok := s.Session().User()
	if !ok {
		t.Fatal("expected logged in session")
	}
	if u.Name != "Ana" || u.Phone != "3001234567" {
		t.Fatalf("unexpected merged user: %+v", u)
	}
	if s.Session().Token() != "tok" {
		t.Fatal("expected token to survive profile update")
	}
}

func TestFilters_PatchAndReset(t *testing.T) {
	s := state.New()
	s.UpdateFilters(domain.FilterPatch{Query: strPtr("cacao"), SortBy: strPtr(domain.SortPriceAsc)})

	f := s.Filters()
	if f.Query != "cacao" || f.SortBy != domain.SortPriceAsc {
		t.Fatalf("unexpected filters: %+v", f)
	}

	s.ResetFilters()
	if s.Filters() != domain.DefaultFilters() {
		t.Fatalf("expected defaults after reset, got %+v", s.Filters())
	}
}

func TestSubscribe_NotifiedAfterMutation(t *testing.T) {
	s := state.New()
	var got []domain.Snapshot
	s.Subscribe(func(snap domain.Snapshot) { got = append(got, snap) })

	s.AddToCart(chocolate(), 2)

	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if len(got[0].Cart) != 1 || got[0].Cart[0].Quantity != 2 {
		t.Fatalf("snapshot does not reflect completed mutation: %+v", got[0].Cart)
	}
}

func TestRehydrate_RecomputesTotalsAndSkipsNotify(t *testing.T) {
	s := state.New()
	notified := false
	s.Subscribe(func(domain.Snapshot) { notified = true })

	s.Rehydrate(domain.Snapshot{
		Cart: []domain.CartItem{
			{ProductID: 1, Name: "Barra", Price: 18000, Quantity: 2, LineTotal: 1},
		},
	})

	if notified {
		t.Fatal("rehydrate must not notify listeners")
	}
	if s.CartCount() != 2 {
		t.Fatalf("expected count 2, got %d", s.CartCount())
	}
	if got := s.CartTotal(); got != 36000.0 {
		t.Fatalf("expected recomputed total 36000, got %v", got)
	}
	items := s.CartItems()
	if items[0].LineTotal != 36000.0 {
		t.Fatalf("expected recomputed line total, got %v", items[0].LineTotal)
	}
	if s.Filters() != domain.DefaultFilters() {
		t.Fatalf("expected default filters for empty snapshot, got %+v", s.Filters())
	}
}

func TestSessionJSON_TokenWithoutUserDecodesLoggedOut(t *testing.T) {
	var sess domain.Session
	if err := json.Unmarshal([]byte(`{"token":"orphan"}`), &sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.LoggedIn() || sess.Token() != "" {
		t.Fatal("expected orphan token to decode as logged out")
	}
}

func TestSessionJSON_RoundTrip(t *testing.T) {
	orig := domain.NewSession(domain.User{ID: 7, Email: "ana@example.com"}, "tok")
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded domain.Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	u, ok := decoded.User()
	if !ok || u.ID != 7 || decoded.Token() != "tok" {
		t.Fatalf("unexpected decoded session: %+v token=%q", u, decoded.Token())
	}
}

func strPtr(s string) *string { return &s }
