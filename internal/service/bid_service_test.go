package service

import (
	"context"
	"testing"
	"time"

	"github.com/adeolu/ridebid/internal/models"
)

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()
	passenger := testPassenger()
	driver := testDriver()

	setup := func() (*mockRequestRepo, *mockBidRepo, *capturePublisher, BidService) {
		requestRepo := newMockRequestRepo()
		requestRepo.addRequest(pendingRequest("req-1", passenger))
		bidRepo := newMockBidRepo()
		pub := &capturePublisher{}
		return requestRepo, bidRepo, pub, NewBidService(bidRepo, requestRepo, pub)
	}

	t.Run("verified driver bids on pending request", func(t *testing.T) {
		_, bidRepo, pub, svc := setup()

		bid, err := svc.PlaceBid(ctx, "req-1", driver, &models.PlaceBidRequest{Amount: 3000})
		if err != nil {
			t.Fatalf("PlaceBid() error = %v", err)
		}
		if bid.Amount != 3000 {
			t.Errorf("PlaceBid() amount = %v, want 3000", bid.Amount)
		}
		if bid.Driver.Name != driver.Name || bid.Driver.RatingAverage != driver.RatingAverage {
			t.Errorf("PlaceBid() driver snapshot = %+v, want frozen profile", bid.Driver)
		}
		if bidRepo.CreateCallCount != 1 {
			t.Errorf("bid creates = %d, want 1", bidRepo.CreateCallCount)
		}
		types := pub.eventTypes()
		if len(types) != 1 || types[0] != "bid_placed" {
			t.Errorf("PlaceBid() published %v, want [bid_placed]", types)
		}
	})

	t.Run("same driver may bid twice", func(t *testing.T) {
		_, bidRepo, _, svc := setup()

		if _, err := svc.PlaceBid(ctx, "req-1", driver, &models.PlaceBidRequest{Amount: 3000}); err != nil {
			t.Fatalf("first PlaceBid() error = %v", err)
		}
		if _, err := svc.PlaceBid(ctx, "req-1", driver, &models.PlaceBidRequest{Amount: 2500}); err != nil {
			t.Fatalf("second PlaceBid() error = %v", err)
		}
		bids, _ := bidRepo.ListByRequestID(ctx, "req-1")
		if len(bids) != 2 {
			t.Errorf("bids = %d, want 2 separate offers", len(bids))
		}
	})

	t.Run("passengers cannot bid", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.PlaceBid(ctx, "req-1", passenger, &models.PlaceBidRequest{Amount: 3000})
		assertAPIError(t, err, "forbidden")
	})

	t.Run("unverified driver cannot bid", func(t *testing.T) {
		_, _, _, svc := setup()
		unverified := testDriver()
		unverified.IsVerified = false

		_, err := svc.PlaceBid(ctx, "req-1", unverified, &models.PlaceBidRequest{Amount: 3000})
		assertAPIError(t, err, "driver_not_verified")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.PlaceBid(ctx, "req-1", driver, &models.PlaceBidRequest{Amount: 0})
		assertAPIError(t, err, "validation_failed")
	})

	t.Run("accepted request no longer takes bids", func(t *testing.T) {
		requestRepo, _, _, svc := setup()
		requestRepo.setStatus("req-1", models.RequestStatusAccepted)

		_, err := svc.PlaceBid(ctx, "req-1", driver, &models.PlaceBidRequest{Amount: 3000})
		assertAPIError(t, err, "invalid_state")
	})

	t.Run("unknown request", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.PlaceBid(ctx, "no-such-id", driver, &models.PlaceBidRequest{Amount: 3000})
		assertAPIError(t, err, "not_found")
	})
}

func TestListBids(t *testing.T) {
	ctx := context.Background()
	passenger := testPassenger()
	driver := testDriver()

	seedBid := func(repo *mockBidRepo, id string, amount int64, offset time.Duration, lat, lng *float64) {
		repo.addBid(&models.Bid{
			ID:        id,
			RequestID: "req-1",
			DriverID:  driver.ID,
			Driver:    models.SnapshotDriver(driver),
			Amount:    amount,
			DriverLat: lat,
			DriverLng: lng,
			CreatedAt: time.Now().Add(offset),
		})
	}

	t.Run("orders by amount then age", func(t *testing.T) {
		requestRepo := newMockRequestRepo()
		requestRepo.addRequest(pendingRequest("req-1", passenger))
		bidRepo := newMockBidRepo()
		seedBid(bidRepo, "bid-a", 5000, 0, nil, nil)
		seedBid(bidRepo, "bid-b", 3000, time.Second, nil, nil)
		seedBid(bidRepo, "bid-c", 4000, 2*time.Second, nil, nil)
		seedBid(bidRepo, "bid-d", 3000, 3*time.Second, nil, nil)
		svc := NewBidService(bidRepo, requestRepo, nil)

		bids, err := svc.ListBids(ctx, "req-1")
		if err != nil {
			t.Fatalf("ListBids() error = %v", err)
		}

		wantOrder := []string{"bid-b", "bid-d", "bid-c", "bid-a"}
		if len(bids) != len(wantOrder) {
			t.Fatalf("ListBids() returned %d bids, want %d", len(bids), len(wantOrder))
		}
		for i, want := range wantOrder {
			if bids[i].ID != want {
				t.Errorf("ListBids()[%d] = %s, want %s", i, bids[i].ID, want)
			}
		}
	})

	t.Run("derives distance and eta from driver position", func(t *testing.T) {
		requestRepo := newMockRequestRepo()
		requestRepo.addRequest(pendingRequest("req-1", passenger)) // pickup at 6.5244,3.3792
		bidRepo := newMockBidRepo()
		lat, lng := 6.4281, 3.4219
		seedBid(bidRepo, "bid-near", 3000, 0, &lat, &lng)
		seedBid(bidRepo, "bid-blind", 4000, 0, nil, nil)
		svc := NewBidService(bidRepo, requestRepo, nil)

		bids, err := svc.ListBids(ctx, "req-1")
		if err != nil {
			t.Fatalf("ListBids() error = %v", err)
		}

		near := bids[0]
		if near.DistanceKm == nil || near.EtaMins == nil {
			t.Fatal("bid with coordinates should carry distance and eta")
		}
		if *near.DistanceKm < 11 || *near.DistanceKm > 13 {
			t.Errorf("distance = %v, expected between 11-13 km", *near.DistanceKm)
		}
		if *near.EtaMins < 22 || *near.EtaMins > 25 {
			t.Errorf("eta = %v, expected between 22-25 mins", *near.EtaMins)
		}

		blind := bids[1]
		if blind.DistanceKm != nil || blind.EtaMins != nil {
			t.Error("bid without coordinates should carry no derived fields")
		}
	})

	t.Run("free-text pickup yields no derived fields", func(t *testing.T) {
		requestRepo := newMockRequestRepo()
		request := pendingRequest("req-1", passenger)
		request.Location = "Ikeja City Mall"
		requestRepo.addRequest(request)
		bidRepo := newMockBidRepo()
		lat, lng := 6.4281, 3.4219
		seedBid(bidRepo, "bid-a", 3000, 0, &lat, &lng)
		svc := NewBidService(bidRepo, requestRepo, nil)

		bids, err := svc.ListBids(ctx, "req-1")
		if err != nil {
			t.Fatalf("ListBids() error = %v", err)
		}
		if bids[0].DistanceKm != nil {
			t.Error("free-text pickup should yield no distance")
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := NewBidService(newMockBidRepo(), newMockRequestRepo(), nil)
		_, err := svc.ListBids(ctx, "no-such-id")
		assertAPIError(t, err, "not_found")
	})
}
