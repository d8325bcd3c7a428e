package authenticator

import (
	"context"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	authenticationv1client "k8s.io/client-go/kubernetes/typed/authentication/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
)

// KubernetesReviewClient submits TokenReviews to the cluster's API server.
type KubernetesReviewClient struct {
	reviews authenticationv1client.TokenReviewInterface
}

// NewKubernetesReviewClient builds a client from the ambient cluster
// credentials: the in-cluster service account, or the kubeconfig outside a
// cluster.
func NewKubernetesReviewClient() (*KubernetesReviewClient, error) {
	restConfig, err := config.GetConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading kubernetes client config")
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating kubernetes clientset")
	}
	return NewKubernetesReviewClientFor(clientset), nil
}

// NewKubernetesReviewClientFor wraps an existing clientset.
func NewKubernetesReviewClientFor(clientset kubernetes.Interface) *KubernetesReviewClient {
	return &KubernetesReviewClient{
		reviews: clientset.AuthenticationV1().TokenReviews(),
	}
}

func (k *KubernetesReviewClient) Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	tr, err := k.reviews.Create(ctx, newTokenReview(req), metav1.CreateOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "creating TokenReview")
	}
	if tr == nil {
		return nil, errors.New("empty TokenReview response")
	}
	return resultFromStatus(tr.Status), nil
}

var _ ReviewClient = &KubernetesReviewClient{}
