package grpc

import (
	context "context"
	"errors"
	"time"

	models "github.com/electrohub/loyalty/internal/models"
	services "github.com/electrohub/loyalty/internal/services"
	"go.uber.org/zap"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const dateLayout = "2006-01-02"

type WalletService struct {
	service *services.LoyaltyService
	logger  *zap.Logger
	UnimplementedWalletServer
}

func NewWalletService(service *services.LoyaltyService, logger *zap.Logger) *WalletService {
	return &WalletService{service, logger, UnimplementedWalletServer{}}
}

func (p *WalletService) Log(msg string, err error) {
	p.logger.Error(msg, zap.String("service", "grpc"), zap.Error(err))
}

// Баланс
func (p *WalletService) GetBalance(ctx context.Context, in *BalanceRequest) (*BalanceResponse, error) {
	if in.User == "" {
		return nil, status.Error(codes.InvalidArgument, "user is required")
	}
	coins, err := p.service.Ledger.Balance(ctx, in.User)
	if err != nil {
		return nil, p.status("GetBalance", err)
	}
	return &BalanceResponse{Coins: coins}, nil
}

// История транзакций за период (даты включительно)
func (p *WalletService) GetTnx(ctx context.Context, in *TnxRequest) (*TnxResponse, error) {
	if in.User == "" {
		return nil, status.Error(codes.InvalidArgument, "user is required")
	}
	var from, to time.Time
	var err error
	if in.Datefrom != "" {
		from, err = time.Parse(dateLayout, in.Datefrom)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if in.Dateto != "" {
		to, err = time.Parse(dateLayout, in.Dateto)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		to = to.Add(24 * time.Hour)
	}
	tnxs, err := p.service.Ledger.History(ctx, in.User)
	if err != nil {
		return nil, p.status("GetTnx", err)
	}
	// сформировать ответ
	resp := make([]*TnxMessage, 0, len(tnxs))
	for _, v := range tnxs {
		if !from.IsZero() && v.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !v.CreatedAt.Before(to) {
			continue
		}
		msg := &TnxMessage{
			UUID:      v.ID.String(),
			Type:      string(v.Type),
			Coins:     v.Amount,
			Order:     v.ReferenceOrderID,
			Product:   v.ReferenceProductID,
			CreatedAt: v.CreatedAt.Format(time.RFC3339),
		}
		if v.ExpiresAt != nil {
			msg.ExpiresAt = v.ExpiresAt.Format(time.RFC3339)
		}
		resp = append(resp, msg)
	}
	return &TnxResponse{Tnx: resp}, nil
}

// Товары, доступные за монеты
func (p *WalletService) GetEligible(ctx context.Context, in *EligibleRequest) (*EligibleResponse, error) {
	if in.User == "" {
		return nil, status.Error(codes.InvalidArgument, "user is required")
	}
	products, err := p.service.GetEligibleProducts(ctx, in.User)
	if err != nil {
		return nil, p.status("GetEligible", err)
	}
	resp := make([]*EligibleProduct, len(products))
	for i, v := range products {
		resp[i] = &EligibleProduct{Product: v.ProductID, Coins: v.CoinsRequired}
	}
	return &EligibleResponse{Products: resp}, nil
}

func (p *WalletService) status(method string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, models.ErrConfigurationMissing):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	p.Log(method, err)
	return status.Error(codes.Internal, err.Error())
}
