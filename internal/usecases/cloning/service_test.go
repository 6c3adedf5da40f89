package cloning

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	clientmocks "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient/mocks"
	repomocks "github.com/vfg2006/campaign-cloner-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func rateLimitedAPIError() *metadomain.APIError {
	return metadomain.NewAPIError(metadomain.ErrorResponse{
		Error: metadomain.ErrorDetails{Code: 17, Message: "User request limit reached"},
	}, 400, []byte(`{"error":{"code":17}}`))
}

func fatalAPIError() *metadomain.APIError {
	return metadomain.NewAPIError(metadomain.ErrorResponse{
		Error: metadomain.ErrorDetails{Code: 100, Message: "Invalid parameter"},
	}, 400, []byte(`{"error":{"code":100}}`))
}

func cloneTemplate() *domain.TemplateGraph {
	return &domain.TemplateGraph{
		Campaign: domain.Fields{
			"id":        "camp-origem",
			"name":      "Campanha origem",
			"objective": "OUTCOME_SALES",
		},
		AdSets: []domain.TemplateAdSet{
			{
				Fields: domain.Fields{
					"id":           "adset-origem",
					"name":         "Conjunto 01",
					"daily_budget": "5000",
				},
				Ads: []domain.TemplateAd{
					{
						Fields: domain.Fields{"id": "ad-origem", "name": "Anúncio 01"},
						CreativeDetails: domain.Fields{
							"object_story_spec": map[string]interface{}{
								"page_id": "111",
								"link_data": map[string]interface{}{
									"link":       "https://loja.example.com",
									"image_hash": "hash-origem",
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestCloneCampaign_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockJobs := repomocks.NewMockCloneJobRepository(ctrl)

	gomock.InOrder(
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
			Return("camp-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/adsets", gomock.Any()).
			Return("adset-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/adcreatives", gomock.Any()).
			Return("creative-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/ads", gomock.Any()).
			Return("ad-novo", nil),
	)

	mockJobs.EXPECT().Create(gomock.Any()).DoAndReturn(func(job *domain.CloneJob) error {
		assert.Equal(t, domain.CloneJobRunning, job.Status)
		assert.Equal(t, "123", job.AccountID)
		return nil
	})
	mockJobs.EXPECT().UpdateOutcome(gomock.Any()).DoAndReturn(func(job *domain.CloneJob) error {
		assert.Equal(t, domain.CloneJobDone, job.Status)
		assert.Nil(t, job.ErrorMessage)
		return nil
	})

	service := NewService(nil, NewObjectCreator(mockClient), mockJobs)

	result, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID:        "123",
		SourceCampaignID: "camp-origem",
		Template:         cloneTemplate(),
	})

	require.NoError(t, err)
	assert.Equal(t, "camp-novo", result.CampaignID)
	assert.Equal(t, []string{"adset-novo"}, result.AdSetIDs)
	assert.Equal(t, []string{"ad-novo"}, result.AdIDs)
}

func TestCloneCampaign_AbortPreservesPartialResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)

	gomock.InOrder(
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
			Return("camp-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/adsets", gomock.Any()).
			Return("", fatalAPIError()),
	)

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	result, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  cloneTemplate(),
	})

	require.Error(t, err)
	assert.Equal(t, ErrorKindFatalRemote, KindOf(err))

	// O resultado parcial preserva o que foi criado antes da interrupção
	require.NotNil(t, result)
	assert.Equal(t, "camp-novo", result.CampaignID)
	assert.Empty(t, result.AdSetIDs)
	assert.Empty(t, result.AdIDs)

	var cloneErr *CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, result, cloneErr.Partial)
}

func TestCloneCampaign_RateLimitedKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
		Return("", rateLimitedAPIError())

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	_, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  cloneTemplate(),
	})

	require.Error(t, err)
	assert.Equal(t, ErrorKindRateLimited, KindOf(err))
}

func TestCloneCampaign_MissingIdentifierKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A plataforma aceita a criação mas a resposta vem sem o ID
	mockClient := clientmocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
		Return("", fmt.Errorf("criação em act_123/campaigns: %w", metadomain.ErrMissingObjectID))

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	_, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  cloneTemplate(),
	})

	require.Error(t, err)
	assert.Equal(t, ErrorKindMissingIdentifier, KindOf(err))
}

func TestCloneCampaign_CBOWithoutBudgetFailsBeforeNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma chamada de rede é esperada
	mockClient := clientmocks.NewMockClient(ctrl)

	template := cloneTemplate()
	template.Campaign["daily_budget"] = "5000"

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	_, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  template,
		Overrides: domain.OverrideMap{
			// O operador limpou o orçamento da campanha CBO
			Campaign: domain.Fields{"daily_budget": ""},
		},
	})

	require.Error(t, err)
	assert.Equal(t, ErrorKindAssemblyInvalid, KindOf(err))
}

func TestCloneCampaign_AdSetWithoutBudgetFailsBeforeNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
		Return("camp-novo", nil)

	template := cloneTemplate()
	delete(template.AdSets[0].Fields, "daily_budget")

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	result, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  template,
	})

	require.Error(t, err)
	assert.Equal(t, ErrorKindAssemblyInvalid, KindOf(err))
	assert.Equal(t, "camp-novo", result.CampaignID)
}

func TestCloneCampaign_SkippableAdContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)

	template := cloneTemplate()
	// Primeiro anúncio sem criativo montável, segundo completo
	adWithCreative := template.AdSets[0].Ads[0]
	template.AdSets[0].Ads = []domain.TemplateAd{
		{Fields: domain.Fields{"id": "ad-sem-criativo", "name": "Sem criativo"}},
		adWithCreative,
	}

	gomock.InOrder(
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
			Return("camp-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/adsets", gomock.Any()).
			Return("adset-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/adcreatives", gomock.Any()).
			Return("creative-novo", nil),
		mockClient.EXPECT().
			CreateObject(gomock.Any(), "act_123/ads", gomock.Any()).
			Return("ad-novo", nil),
	)

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	result, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  template,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ad-novo"}, result.AdIDs)
}

func TestCloneCampaign_JobRecordsAbort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockJobs := repomocks.NewMockCloneJobRepository(ctrl)

	mockClient.EXPECT().
		CreateObject(gomock.Any(), "act_123/campaigns", gomock.Any()).
		Return("", fatalAPIError())

	mockJobs.EXPECT().Create(gomock.Any()).Return(nil)
	mockJobs.EXPECT().UpdateOutcome(gomock.Any()).DoAndReturn(func(job *domain.CloneJob) error {
		assert.Equal(t, domain.CloneJobAborted, job.Status)
		require.NotNil(t, job.ErrorMessage)
		assert.NotEmpty(t, *job.ErrorMessage)
		return nil
	})

	service := NewService(nil, NewObjectCreator(mockClient), mockJobs)

	_, err := service.CloneCampaign(context.Background(), &CloneRequest{
		AccountID: "123",
		Template:  cloneTemplate(),
	})

	require.Error(t, err)
}

func TestCloneCampaign_WithoutTemplate(t *testing.T) {
	service := NewService(nil, nil, nil)

	_, err := service.CloneCampaign(context.Background(), &CloneRequest{AccountID: "123"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindAssemblyInvalid, KindOf(err))
}

func TestComposeCreative_CreatesOnAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		CreateObject(gomock.Any(), "act_123/adcreatives", gomock.Any()).
		Return("creative-novo", nil)

	service := NewService(nil, NewObjectCreator(mockClient), nil)

	creativeID, err := service.ComposeCreative(context.Background(), "123", CreativeComposition{
		Kind:      "single",
		PageID:    "111",
		Link:      "https://loja.example.com",
		ImageHash: "abc123",
	})

	require.NoError(t, err)
	assert.Equal(t, "creative-novo", creativeID)
}

func TestComposeCreative_InvalidInputSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	service := NewService(nil, NewObjectCreator(mockClient), nil)

	_, err := service.ComposeCreative(context.Background(), "123", CreativeComposition{Kind: "single"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindAssemblyInvalid, KindOf(err))
}
