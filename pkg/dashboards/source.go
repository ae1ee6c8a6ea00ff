package dashboards

import (
	"context"
	"fmt"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ReadConfigMap returns the dashboard JSON stored in a ConfigMap, under key
// or, when key is empty, under the first key in lexical order.
func ReadConfigMap(ctx context.Context, clients kubernetes.Interface, namespace, name, key string) ([]byte, error) {
	cm, err := clients.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("could not get ConfigMap %s/%s: %w", namespace, name, err)
	}

	if key != "" {
		value, ok := cm.Data[key]
		if !ok {
			return nil, fmt.Errorf("ConfigMap %s/%s has no %q key", namespace, name, key)
		}
		return []byte(value), nil
	}

	keys := make([]string, 0, len(cm.Data))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("could not get first Data key of ConfigMap %s/%s", namespace, name)
	}
	sort.Strings(keys)

	return []byte(cm.Data[keys[0]]), nil
}
