// Package store implements the document-store publisher on Postgres.
package store

import (
	"context"
	stdlog "log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PastaPastaPasta/yappr-sub004/core"
)

// ProposalDocument is the stored form of a proposal. Hash keys are
// fixed-length byte arrays; hex conversion happens in the core codec
// before any write.
type ProposalDocument struct {
	Hash             []byte `gorm:"primaryKey;size:32"`
	ObjectType       int
	Name             string `gorm:"size:40"`
	URL              string `gorm:"size:256"`
	PaymentAddress   string `gorm:"size:64"`
	PaymentAmount    int64
	StartEpoch       int64
	EndEpoch         int64
	Status           string `gorm:"size:16;index"`
	YesCount         int64
	NoCount          int64
	AbstainCount     int64
	MasternodeCount  int64
	FundingThreshold int64
	LastUpdatedAt    time.Time
	CreationHeight   int64
	CollateralHash   []byte `gorm:"size:32"`
	CollateralKey    string `gorm:"size:130"`
}

func (ProposalDocument) TableName() string { return "proposals" }

// MasternodeDocument is the stored form of a registry entry.
type MasternodeDocument struct {
	RegistrationHash []byte `gorm:"primaryKey;size:32"`
	VotingKeyHash    []byte `gorm:"size:20;index"`
	OwnerKeyHash     []byte `gorm:"size:20"`
	PayoutAddress    string `gorm:"size:64"`
	Enabled          bool   `gorm:"index"`
	LastUpdatedAt    time.Time
}

func (MasternodeDocument) TableName() string { return "masternodes" }

// Open connects to Postgres and migrates the document tables.
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	if err := db.AutoMigrate(&ProposalDocument{}, &MasternodeDocument{}); err != nil {
		return nil, errors.Wrap(err, "migrate document tables")
	}

	return db, nil
}

var _ core.Publisher = (*Publisher)(nil)

// Publisher implements core.Publisher on a gorm connection.
type Publisher struct {
	db *gorm.DB
}

func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{db: db}
}

func (p *Publisher) UpsertProposal(ctx context.Context, data *core.ProposalData) (bool, error) {
	doc := proposalDocument(data)

	var existing ProposalDocument
	err := p.db.WithContext(ctx).First(&existing, "hash = ?", doc.Hash).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := p.db.WithContext(ctx).Create(doc).Error; err != nil {
			return false, errors.Wrap(err, "create proposal document")
		}
		return true, nil
	case err != nil:
		return false, errors.Wrap(err, "look up proposal document")
	}

	if err := p.db.WithContext(ctx).Save(doc).Error; err != nil {
		return false, errors.Wrap(err, "update proposal document")
	}
	return false, nil
}

func (p *Publisher) ListProposals(ctx context.Context) ([]*core.ProposalData, error) {
	var docs []ProposalDocument
	if err := p.db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, errors.Wrap(err, "list proposal documents")
	}

	out := make([]*core.ProposalData, 0, len(docs))
	for i := range docs {
		out = append(out, proposalData(&docs[i]))
	}
	return out, nil
}

func (p *Publisher) DeleteProposal(ctx context.Context, hash []byte) error {
	err := p.db.WithContext(ctx).Delete(&ProposalDocument{}, "hash = ?", hash).Error
	return errors.Wrap(err, "delete proposal document")
}

func (p *Publisher) UpsertMasternode(ctx context.Context, data *core.MasternodeData) (bool, error) {
	doc := &MasternodeDocument{
		RegistrationHash: data.RegistrationHash,
		VotingKeyHash:    data.VotingKeyHash,
		OwnerKeyHash:     data.OwnerKeyHash,
		PayoutAddress:    data.PayoutAddress,
		Enabled:          data.Enabled,
		LastUpdatedAt:    data.LastUpdatedAt,
	}

	var existing MasternodeDocument
	err := p.db.WithContext(ctx).First(&existing, "registration_hash = ?", doc.RegistrationHash).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := p.db.WithContext(ctx).Create(doc).Error; err != nil {
			return false, errors.Wrap(err, "create masternode document")
		}
		return true, nil
	case err != nil:
		return false, errors.Wrap(err, "look up masternode document")
	}

	if err := p.db.WithContext(ctx).Save(doc).Error; err != nil {
		return false, errors.Wrap(err, "update masternode document")
	}
	return false, nil
}

func proposalDocument(data *core.ProposalData) *ProposalDocument {
	return &ProposalDocument{
		Hash:             data.Hash,
		ObjectType:       data.ObjectType,
		Name:             data.Name,
		URL:              data.URL,
		PaymentAddress:   data.PaymentAddress,
		PaymentAmount:    data.PaymentAmount,
		StartEpoch:       data.StartEpoch,
		EndEpoch:         data.EndEpoch,
		Status:           string(data.Status),
		YesCount:         data.YesCount,
		NoCount:          data.NoCount,
		AbstainCount:     data.AbstainCount,
		MasternodeCount:  data.MasternodeCount,
		FundingThreshold: data.FundingThreshold,
		LastUpdatedAt:    data.LastUpdatedAt,
		CreationHeight:   data.CreationHeight,
		CollateralHash:   data.CollateralHash,
		CollateralKey:    data.CollateralKey,
	}
}

func proposalData(doc *ProposalDocument) *core.ProposalData {
	return &core.ProposalData{
		Hash:             doc.Hash,
		ObjectType:       doc.ObjectType,
		Name:             doc.Name,
		URL:              doc.URL,
		PaymentAddress:   doc.PaymentAddress,
		PaymentAmount:    doc.PaymentAmount,
		StartEpoch:       doc.StartEpoch,
		EndEpoch:         doc.EndEpoch,
		Status:           core.ProposalStatus(doc.Status),
		YesCount:         doc.YesCount,
		NoCount:          doc.NoCount,
		AbstainCount:     doc.AbstainCount,
		MasternodeCount:  doc.MasternodeCount,
		FundingThreshold: doc.FundingThreshold,
		LastUpdatedAt:    doc.LastUpdatedAt,
		CreationHeight:   doc.CreationHeight,
		CollateralHash:   doc.CollateralHash,
		CollateralKey:    doc.CollateralKey,
	}
}
