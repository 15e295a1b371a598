package fee

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

// MockFeeTypeRepository is a mock implementation of fee.FeeTypeRepository
type MockFeeTypeRepository struct {
	mock.Mock
}

func (m *MockFeeTypeRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeType, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeType), args.Error(1)
}

func (m *MockFeeTypeRepository) FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]fee.FeeType, error) {
	args := m.Called(ctx, tc, ids)
	return args.Get(0).([]fee.FeeType), args.Error(1)
}

func (m *MockFeeTypeRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter shared.Filter) ([]fee.FeeType, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]fee.FeeType), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeeTypeRepository) ExistsByCode(ctx context.Context, tc shared.TenantContext, code string) (bool, error) {
	args := m.Called(ctx, tc, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeTypeRepository) Save(ctx context.Context, ft *fee.FeeType) error {
	return m.Called(ctx, ft).Error(0)
}

// MockFeeStructureRepository is a mock implementation of fee.FeeStructureRepository
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeStructure, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.FeeStructureFilter) ([]fee.FeeStructure, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]fee.FeeStructure), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeeStructureRepository) ExistsByName(ctx context.Context, tc shared.TenantContext, name string, academicYear int, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tc, name, academicYear, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeStructureRepository) Save(ctx context.Context, fs *fee.FeeStructure) error {
	return m.Called(ctx, fs).Error(0)
}

func (m *MockFeeStructureRepository) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	return m.Called(ctx, tc, id).Error(0)
}

// MockInvoiceRepository is a mock implementation of fee.InvoiceRepository.
// ApplyPayment runs the callback against the invoice returned by the
// expectation, numbering receipts from an in-memory counter.
type MockInvoiceRepository struct {
	mock.Mock
	mu       sync.Mutex
	receipts int64
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeInvoice, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.InvoiceFilter) ([]fee.FeeInvoice, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]fee.FeeInvoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByLearner(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) ([]fee.FeeInvoice, error) {
	args := m.Called(ctx, tc, learnerID)
	return args.Get(0).([]fee.FeeInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForLearner(ctx context.Context, tc shared.TenantContext, learnerID, feeStructureID uuid.UUID, term, academicYear int) (bool, error) {
	args := m.Called(ctx, tc, learnerID, feeStructureID, term, academicYear)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForStructure(ctx context.Context, tc shared.TenantContext, feeStructureID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tc, feeStructureID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *fee.FeeInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) CreateBatch(ctx context.Context, invoices []*fee.FeeInvoice) ([]*fee.FeeInvoice, int, error) {
	args := m.Called(ctx, invoices)
	if fn, ok := args.Get(0).(func([]*fee.FeeInvoice) ([]*fee.FeeInvoice, int)); ok {
		created, skipped := fn(invoices)
		return created, skipped, args.Error(2)
	}
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*fee.FeeInvoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, inv *fee.FeeInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) ApplyPayment(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, fn fee.PaymentFunc) (*fee.FeeInvoice, *fee.FeePayment, error) {
	args := m.Called(ctx, tc, invoiceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}
	inv := args.Get(0).(*fee.FeeInvoice)
	if !inv.Status.CanApplyPayment() {
		return nil, nil, fee.ErrInvoiceNotPayable
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.receipts + 1
	p, err := fn(inv, fee.FormatDocumentNumber(fee.DocumentReceipt, time.Now().Year(), next))
	if err != nil {
		return nil, nil, err
	}
	m.receipts = next
	return inv, p, nil
}

// MockPaymentRepository is a mock implementation of fee.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeePayment, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.PaymentFilter) ([]fee.FeePayment, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]fee.FeePayment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID) ([]fee.FeePayment, error) {
	args := m.Called(ctx, tc, invoiceID)
	return args.Get(0).([]fee.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) SetReceiptKey(ctx context.Context, schoolID, paymentID uuid.UUID, key string) error {
	return m.Called(ctx, schoolID, paymentID, key).Error(0)
}

// MockLearnerRepository is a mock implementation of learner.LearnerRepository
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*learner.Learner, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]learner.Learner, error) {
	args := m.Called(ctx, tc, ids)
	return args.Get(0).([]learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter learner.Filter) ([]learner.Learner, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]learner.Learner), args.Get(1).(int64), args.Error(2)
}

func (m *MockLearnerRepository) FindActiveByGrade(ctx context.Context, tc shared.TenantContext, grade, stream string) ([]learner.Learner, error) {
	args := m.Called(ctx, tc, grade, stream)
	return args.Get(0).([]learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) ExistsByAdmissionNumber(ctx context.Context, tc shared.TenantContext, admissionNumber string) (bool, error) {
	args := m.Called(ctx, tc, admissionNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockLearnerRepository) Save(ctx context.Context, l *learner.Learner) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLearnerRepository) ExistingAdmissionNumbers(ctx context.Context, tc shared.TenantContext, numbers []string) ([]string, error) {
	args := m.Called(ctx, tc, numbers)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLearnerRepository) CreateBatch(ctx context.Context, learners []*learner.Learner) error {
	return m.Called(ctx, learners).Error(0)
}

// MockSchoolRepository is a mock implementation of identity.SchoolRepository
type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.School), args.Error(1)
}

func (m *MockSchoolRepository) FindByCode(ctx context.Context, code string) (*identity.School, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.School), args.Error(1)
}

func (m *MockSchoolRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchoolRepository) Save(ctx context.Context, school *identity.School) error {
	return m.Called(ctx, school).Error(0)
}

func (m *MockSchoolRepository) Register(ctx context.Context, school *identity.School, admin *identity.User) error {
	return m.Called(ctx, school, admin).Error(0)
}

func (m *MockSchoolRepository) SaveBranch(ctx context.Context, branch *identity.Branch) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockSchoolRepository) FindBranches(ctx context.Context, schoolID uuid.UUID) ([]identity.Branch, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]identity.Branch), args.Error(1)
}

func (m *MockSchoolRepository) FindBranch(ctx context.Context, schoolID, branchID uuid.UUID) (*identity.Branch, error) {
	args := m.Called(ctx, schoolID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Branch), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, schoolID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, schoolID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, schoolID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, schoolID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// MockObjectStorage is a mock implementation of storage.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockRenderer is a mock implementation of printing.PDFRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

func (m *MockRenderer) Close() error {
	return nil
}
