package sqlite

import (
	"context"
	"testing"

	"github.com/foodgram/foodgram-server/internal/domain"
)

func TestShoppingListLines_SumsAcrossRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "chef")
	buyer := seedUser(t, s, "buyer")
	flour := seedIngredient(t, s, "flour", "g")
	sugar := seedIngredient(t, s, "sugar", "g")

	r1 := seedRecipe(t, s, author.ID, "bread", nil, []domain.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 100},
		{IngredientID: sugar.ID, Amount: 10},
	})
	r2 := seedRecipe(t, s, author.ID, "rolls", nil, []domain.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 150},
	})

	for _, r := range []*domain.Recipe{r1, r2} {
		if err := s.AddMembership(ctx, &domain.Membership{Kind: domain.MembershipShoppingCart, UserID: buyer.ID, TargetID: r.ID}); err != nil {
			t.Fatalf("AddMembership: %v", err)
		}
	}

	lines, err := s.ShoppingListLines(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("ShoppingListLines: %v", err)
	}

	want := []domain.ShoppingListLine{
		{Name: "flour", MeasurementUnit: "g", Amount: 250},
		{Name: "sugar", MeasurementUnit: "g", Amount: 10},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %+v, want %+v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, lines[i], want[i])
		}
	}

	list := domain.ShoppingList{Lines: lines}
	if got := list.Render(); got != "Shopping list:\n\n1) flour - 250 g\n2) sugar - 10 g\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestShoppingListLines_OrderIgnoresCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "chef")
	buyer := seedUser(t, s, "buyer")
	banana := seedIngredient(t, s, "Banana", "pcs")
	apple := seedIngredient(t, s, "apple", "pcs")
	flour := seedIngredient(t, s, "flour", "g")

	r := seedRecipe(t, s, author.ID, "fruit bread", nil, []domain.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 300},
		{IngredientID: banana.ID, Amount: 2},
		{IngredientID: apple.ID, Amount: 1},
	})
	if err := s.AddMembership(ctx, &domain.Membership{Kind: domain.MembershipShoppingCart, UserID: buyer.ID, TargetID: r.ID}); err != nil {
		t.Fatalf("AddMembership: %v", err)
	}

	lines, err := s.ShoppingListLines(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("ShoppingListLines: %v", err)
	}

	want := []string{"apple", "Banana", "flour"}
	if len(lines) != len(want) {
		t.Fatalf("got %+v, want names %v", lines, want)
	}
	for i, name := range want {
		if lines[i].Name != name {
			t.Errorf("line %d: got %q, want %q", i, lines[i].Name, name)
		}
	}
}

func TestShoppingListLines_SameNameDifferentUnitStaySeparate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "chef")
	milkMl := seedIngredient(t, s, "milk", "ml")
	milkCup := seedIngredient(t, s, "milk", "cup")

	r := seedRecipe(t, s, author.ID, "latte", nil, []domain.RecipeIngredient{
		{IngredientID: milkMl.ID, Amount: 200},
		{IngredientID: milkCup.ID, Amount: 1},
	})
	if err := s.AddMembership(ctx, &domain.Membership{Kind: domain.MembershipShoppingCart, UserID: author.ID, TargetID: r.ID}); err != nil {
		t.Fatalf("AddMembership: %v", err)
	}

	lines, err := s.ShoppingListLines(ctx, author.ID)
	if err != nil {
		t.Fatalf("ShoppingListLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}
	if lines[0].MeasurementUnit != "cup" || lines[1].MeasurementUnit != "ml" {
		t.Errorf("unexpected order: %+v", lines)
	}
}

func TestShoppingListLines_EmptyCart(t *testing.T) {
	s := newTestStore(t)

	u := seedUser(t, s, "nobody")

	lines, err := s.ShoppingListLines(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("ShoppingListLines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %+v", lines)
	}
}
