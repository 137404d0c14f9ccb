package dummydb

import (
	"context"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/stageplot"
)

func setupItemSvc(t *testing.T) (*stageplot.Service, *itemRepository) {
	db, err := Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := NewItemRepository(db)
	svc := stageplot.NewService(repo, core.Conf)
	return svc, repo
}

func createItem(t *testing.T, repo *itemRepository, docID string, iconType stageplot.IconType, channel int) stageplot.Item {
	it := stageplot.Item{
		DocumentID: docID,
		IconType:   iconType,
		ProvidedBy: stageplot.ProvidedByUnspecified,
	}
	if channel > 0 {
		it.ChannelNumber = null.IntFrom(channel)
	}
	it, err := repo.CreateItem(context.Background(), it)
	if err != nil {
		t.Fatalf("createItem() failed: %v", err)
	}
	return it
}

func Test_itemRepository_pairingIsSymmetric(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	a := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	b := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)

	if err := svc.Pair(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Pair() failed: %v", err)
	}

	a, _ = repo.GetItem(ctx, a.ID)
	b, _ = repo.GetItem(ctx, b.ID)
	if a.PairedWithID.String != b.ID {
		t.Errorf("a.PairedWithID = %q; want %q", a.PairedWithID.String, b.ID)
	}
	if b.PairedWithID.String != a.ID {
		t.Errorf("b.PairedWithID = %q; want %q", b.PairedWithID.String, a.ID)
	}
}

func Test_itemRepository_unpairClearsBothSides(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	a := createItem(t, repo, "doc1", stageplot.IconIEM, 0)
	b := createItem(t, repo, "doc1", stageplot.IconIEM, 0)
	if err := svc.Pair(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Pair() failed: %v", err)
	}

	if err := svc.Unpair(ctx, a.ID); err != nil {
		t.Fatalf("Unpair() failed: %v", err)
	}

	a, _ = repo.GetItem(ctx, a.ID)
	b, _ = repo.GetItem(ctx, b.ID)
	if a.PairedWithID.Valid {
		t.Errorf("a.PairedWithID = %v; want cleared", a.PairedWithID)
	}
	if b.PairedWithID.Valid {
		t.Errorf("b.PairedWithID = %v; want cleared", b.PairedWithID)
	}
}

func Test_itemRepository_repairingStealsPartner(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	a := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	b := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	c := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)

	if err := svc.Pair(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Pair(a, b) failed: %v", err)
	}
	if err := svc.Pair(ctx, a.ID, c.ID); err != nil {
		t.Fatalf("Pair(a, c) failed: %v", err)
	}

	a, _ = repo.GetItem(ctx, a.ID)
	b, _ = repo.GetItem(ctx, b.ID)
	c, _ = repo.GetItem(ctx, c.ID)
	if a.PairedWithID.String != c.ID || c.PairedWithID.String != a.ID {
		t.Error("a and c are not paired after re-pairing")
	}
	if b.PairedWithID.Valid {
		t.Errorf("b.PairedWithID = %v; want cleared after partner was re-paired", b.PairedWithID)
	}
}

func Test_itemRepository_pairRejectsUnpairableAndSelf(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	wedge := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	guitar := createItem(t, repo, "doc1", stageplot.IconGuitar, 0)

	if err := svc.Pair(ctx, wedge.ID, wedge.ID); err == nil {
		t.Error("Pair(self) succeeded; want error")
	}
	if err := svc.Pair(ctx, wedge.ID, guitar.ID); err == nil {
		t.Error("Pair(wedge, guitar) succeeded; want error")
	}
}

func Test_itemRepository_deleteClearsPartner(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	a := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	b := createItem(t, repo, "doc1", stageplot.IconMonitorWedge, 0)
	if err := svc.Pair(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Pair() failed: %v", err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := repo.GetItem(ctx, a.ID); err != stageplot.ErrNotFound {
		t.Errorf("GetItem(a) err = %v; want ErrNotFound", err)
	}
	b, _ = repo.GetItem(ctx, b.ID)
	if b.PairedWithID.Valid {
		t.Errorf("b.PairedWithID = %v; want cleared after partner delete", b.PairedWithID)
	}
}

func Test_itemService_renumber(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	it5 := createItem(t, repo, "doc1", stageplot.IconMicShort, 5)
	it2 := createItem(t, repo, "doc1", stageplot.IconMicShort, 2)
	it9 := createItem(t, repo, "doc1", stageplot.IconMicShort, 9)
	unassigned := createItem(t, repo, "doc1", stageplot.IconRiser, 0)

	items, err := svc.Renumber(ctx, "doc1", []string{it9.ID, it2.ID, it5.ID})
	if err != nil {
		t.Fatalf("Renumber() failed: %v", err)
	}

	wantChannels := map[string]int{it9.ID: 1, it2.ID: 2, it5.ID: 3}
	for _, it := range items {
		if it.ID == unassigned.ID {
			if it.HasChannel() {
				t.Errorf("unassigned item gained channel %d", it.ChannelNumber.Int)
			}
			continue
		}
		if want := wantChannels[it.ID]; it.ChannelNumber.Int != want {
			t.Errorf("item %s channel = %d; want %d", it.ID, it.ChannelNumber.Int, want)
		}
	}
}

func Test_itemService_renumberRejectsForeignItems(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	mine := createItem(t, repo, "doc1", stageplot.IconMicShort, 1)
	other := createItem(t, repo, "doc2", stageplot.IconMicShort, 1)

	if _, err := svc.Renumber(ctx, "doc1", []string{mine.ID, other.ID}); err == nil {
		t.Error("Renumber() with foreign item succeeded; want validation error")
	}
}

func Test_itemService_expandDrumKit(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupItemSvc(t)

	items, err := svc.ExpandDrumKit(ctx, "doc1", stageplot.NewDrumKit{PositionX: 50, PositionY: 30, BaseChannel: 4})
	if err != nil {
		t.Fatalf("ExpandDrumKit() failed: %v", err)
	}
	if len(items) != 9 {
		t.Fatalf("len(items) = %d; want 9", len(items))
	}
	for i, it := range items {
		if it.ID == "" {
			t.Errorf("items[%d] has no ID", i)
		}
		if it.ChannelNumber.Int != 4+i {
			t.Errorf("items[%d].ChannelNumber = %d; want %d", i, it.ChannelNumber.Int, 4+i)
		}
	}
}

func Test_itemService_moveAndRotate(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupItemSvc(t)

	it := createItem(t, repo, "doc1", stageplot.IconAmp, 0)

	moved, err := svc.Move(ctx, it.ID, 12.5, 97.25)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if moved.PositionX != 12.5 || moved.PositionY != 97.25 {
		t.Errorf("position = (%v, %v); want (12.5, 97.25)", moved.PositionX, moved.PositionY)
	}

	rotated, err := svc.Rotate(ctx, it.ID, stageplot.RotateLeft)
	if err != nil {
		t.Fatalf("Rotate() failed: %v", err)
	}
	if rotated.Rotation != 345 {
		t.Errorf("rotation = %d; want 345", rotated.Rotation)
	}
}
